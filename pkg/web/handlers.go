package web

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/dance-companion/pkg/hub"
)

const indexHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Dance Companion</title>
<style>body{margin:0;background:#111;color:#eee;font-family:sans-serif;text-align:center}
img{max-width:100%;max-height:90vh}button{margin:8px;padding:6px 16px}</style>
</head>
<body>
<img id="frame" alt="waiting for frames">
<div><button onclick="fetch('/api/stop',{method:'POST'})">Stop</button><span id="status"></span></div>
<script>
const img = document.getElementById('frame');
const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws/frames');
ws.binaryType = 'blob';
ws.onmessage = (e) => {
  if (typeof e.data === 'string') {
    const s = JSON.parse(e.data);
    document.getElementById('status').textContent =
      ' ' + s.state + ' | frames ' + s.frames_read + ' | fps ' + (s.fps || 0).toFixed(1);
    return;
  }
  const url = URL.createObjectURL(e.data);
  img.onload = () => URL.revokeObjectURL(url);
  img.src = url;
};
</script>
</body>
</html>`

// handleIndex serves the viewer page
func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(indexHTML)
}

// handleStatus returns the run state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	fn := s.statusFunc()
	if fn == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "status not available",
		})
	}
	return c.JSON(fn())
}

// handleStop asks the processing loop to stop at its next iteration
func (s *Server) handleStop(c *fiber.Ctx) error {
	s.RequestStop()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"stopping": true,
	})
}

// handleFramesWS streams JPEG frames and status pushes to a viewer
func (s *Server) handleFramesWS(c *websocket.Conn) {
	client := hub.NewClient(s.frames, c)
	if client == nil {
		return
	}
	client.Run()
}
