/*
Package device talks to a MicroPython board through an external management
tool (ampy by default).

	+-----------+     +-----------+     +-----------+
	|  Eraser   |     | Uploader  |     |   reset   |
	+-----+-----+     +-----+-----+     +-----+-----+
	      |                 |                 |
	      +--------+--------+--------+--------+
	               |                 |
	         +-----+-----+     +-----+-----+
	         |  Runner   | --> | Commands  |
	         +-----+-----+     +-----------+
	               |
	         +-----+-----+
	         | Executor  |  exec / dry-run / test fake
	         +-----------+

🎯 Purpose:
- Builds argument lists for every board operation (no shell involved)
- Runs them through an injectable Executor
- Treats a non-zero exit as "no result": logged, never returned

⚠️ Limitations:
- Listing entries are classified as files when their basename contains a dot
  and as directories otherwise. The tool's listing carries no type marker.
- Nothing is retried and nothing is verified after removal or upload.
- There is no timeout. A hung tool hangs the caller until ctx is cancelled.
*/
package device
