package rod

// Pages standing in for the animation application.
const (
	// ExportingAppHTML publishes the store after a short delay and offers a
	// small GIF download once recording starts.
	ExportingAppHTML = `<!DOCTYPE html>
<html>
<head><title>stub app</title></head>
<body>
	<h1>stub</h1>
	<script>
		window.__multiplier = 0;
		setTimeout(function () {
			window.useRSVPStore = {
				getState: function () {
					return {
						setGifFrameMultiplier: function (n) { window.__multiplier = n; },
						startGifRecording: function () {
							setTimeout(function () {
								var blob = new Blob(["GIF89a-stub-" + window.__multiplier], { type: "image/gif" });
								var a = document.createElement("a");
								a.href = URL.createObjectURL(blob);
								a.download = "iblipper.gif";
								document.body.appendChild(a);
								a.click();
							}, 50);
						}
					};
				}
			};
		}, 100);
	</script>
</body>
</html>`

	// SilentAppHTML never publishes the store.
	SilentAppHTML = `<!DOCTYPE html>
<html>
<body><p>still loading forever</p></body>
</html>`

	// RecordingNeverFinishesHTML is ready but never downloads anything.
	RecordingNeverFinishesHTML = `<!DOCTYPE html>
<html>
<body>
	<script>
		window.useRSVPStore = {
			getState: function () {
				return {
					setGifFrameMultiplier: function () {},
					startGifRecording: function () {}
				};
			}
		};
	</script>
</body>
</html>`

	// IncompleteStoreHTML exposes the store without the export commands.
	IncompleteStoreHTML = `<!DOCTYPE html>
<html>
<body>
	<script>
		window.useRSVPStore = { getState: function () { return {}; } };
	</script>
</body>
</html>`
)
