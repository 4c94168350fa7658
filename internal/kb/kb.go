package kb

// Entry is one knowledge-base record: a literal trigger phrase and the
// troubleshooting guide it unlocks. Entries are loaded once at startup and
// never mutated afterwards, so they can be shared across sessions without
// locking.
type Entry struct {
	Trigger  string `json:"trigger"`
	Document string `json:"document"`
}

// FallbackNotice is returned by Lookup when no trigger matches the query.
// A miss is a normal outcome, not an error: the model is asked to answer
// from general knowledge instead.
const FallbackNotice = "No specific guide found. I will try to answer based on my general knowledge."

// DefaultEntries returns the built-in network troubleshooting guides, in the
// fixed order they are checked against incoming queries.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Trigger: "no internet",
			Document: `### Troubleshooting 'No Internet Connection'

1.  **Check Physical Connections:** Ensure all cables (Ethernet, power) are securely plugged into the modem, router, and your computer. Look for any damaged or loose cables.
2.  **Restart Devices:**
    * Unplug the power from your modem and router.
    * Wait for 30 seconds.
    * Plug the modem back in and wait for all lights to stabilize.
    * Plug the router back in and wait for it to boot up.
    * Restart your computer or device.
3.  **Check Indicator Lights:** On your modem and router, a solid green or blue light usually indicates a healthy connection. A red or blinking light often signals a problem. Check the manual for specific meanings.
4.  **Test with Another Device:** Try connecting to the internet with a different device (e.g., phone or tablet) to see if the issue is with your computer or the network itself.
5.  **Run Network Troubleshooter:** On Windows, use the built-in troubleshooter. On macOS, use Wireless Diagnostics. These can often identify common issues.
6.  **Contact Your ISP:** If all else fails, the problem may be on your Internet Service Provider's end. Contact their support for assistance.`,
		},
		{
			Trigger: "slow network",
			Document: `### Troubleshooting 'Slow Network Speed'

1.  **Run a Speed Test:** Use a reliable service like speedtest.net to measure your current download and upload speeds. This confirms if the issue is with your overall connection speed.
2.  **Reduce Connected Devices:** A large number of devices using the network simultaneously can slow it down. Disconnect unused devices.
3.  **Check for Background Downloads:** Ensure no large files are downloading or updating in the background on any device.
4.  **Restart Your Router:** Rebooting the router can clear its cache and improve performance.
5.  **Check Wi-Fi Signal Strength:** Move closer to your router or use a Wi-Fi analyzer app to check for signal interference.
6.  **Update Router Firmware:** Check your router's manufacturer website for any available firmware updates, which can improve performance and security.`,
		},
		{
			Trigger: "wi-fi not working",
			Document: `### Troubleshooting 'Wi-Fi Connection Issues'

1.  **Check Wi-Fi Switch:** Many laptops and some desktops have a physical switch or key combination to turn Wi-Fi on or off.
2.  **Forget and Reconnect:** On your device, "forget" the Wi-Fi network and then try to connect to it again, entering the password as if it were a new connection.
3.  **Verify Password:** Double-check that you are entering the correct Wi-Fi password.
4.  **Move Closer to the Router:** Physical distance and obstacles can degrade Wi-Fi signal quality.
5.  **Check for Interference:** Other electronic devices, like microwaves and cordless phones, can interfere with your Wi-Fi signal.`,
		},
		{
			Trigger: "ip address",
			Document: `### Finding and Renewing Your IP Address

**To find your IP address:**
* **Windows:** Open Command Prompt and type ipconfig.
* **macOS:** Open Terminal and type ifconfig or check System Settings > Network.
* **Linux:** Open Terminal and type ifconfig or ip addr show.

**To renew your IP address:**
* **Windows:** Open Command Prompt and type ipconfig /release followed by ipconfig /renew.
* **macOS / Linux:** Open Terminal and type sudo dhclient -r followed by sudo dhclient.`,
		},
	}
}
