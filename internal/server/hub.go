package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/backdrop/internal/export"
	"github.com/san-kum/backdrop/internal/loop"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/world"
)

const (
	writeWait   = 5 * time.Second
	maxReadSize = 1024
)

// resizeMsg is what a browser sends when its viewport changes.
type resizeMsg struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// hub gives every websocket connection its own loop and streams one SVG
// document per frame.
type hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	opts     Options
}

type client struct {
	conn *websocket.Conn
	loop *loop.Loop
	out  chan string
	done chan struct{}
}

func newHub(opts Options) *hub {
	return &hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		opts: opts,
	}
}

func (h *hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.opts.MaxClients > 0 && len(h.clients) >= h.opts.MaxClients {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	c.loop.Stop()
	close(c.done)
	c.conn.Close()
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// closeAll stops every loop; used on shutdown.
func (h *hub) closeAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}

func (h *hub) handler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(maxReadSize)

	bounds := clampBounds(initialBounds(r, h.opts.Bounds), h.opts.MaxBounds)
	svg := export.NewSVG(bounds, h.opts.Background)
	resizes := loop.NewNotifier()
	c := &client{
		conn: conn,
		loop: loop.New(svg, loop.NewTickerFrames(h.opts.FPS), resizes, h.opts.Build, bounds),
		out:  make(chan string, 1),
		done: make(chan struct{}),
	}
	c.loop.SetObserver(func(time.Time, *world.World) { c.offer(svg.String()) })

	if !h.add(c) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too many clients"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	defer h.remove(c)

	go c.writePump()
	c.loop.Start()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("client read error: %v", err)
			}
			return
		}

		var msg resizeMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("unable to decode resize: %v", err)
			continue
		}
		resizes.Notify(clampBounds(scene.Bounds{Width: msg.Width, Height: msg.Height}, h.opts.MaxBounds))
	}
}

// offer queues a frame, replacing one the writer has not picked up yet.
func (c *client) offer(frame string) {
	select {
	case c.out <- frame:
		return
	default:
	}
	select {
	case <-c.out:
	default:
	}
	select {
	case c.out <- frame:
	default:
	}
}

func (c *client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				log.Printf("failed to write frame: %v", err)
				c.conn.Close()
				return
			}
		}
	}
}

func initialBounds(r *http.Request, fallback scene.Bounds) scene.Bounds {
	q := r.URL.Query()
	w, errW := strconv.ParseFloat(q.Get("width"), 64)
	h, errH := strconv.ParseFloat(q.Get("height"), 64)
	b := scene.Bounds{Width: w, Height: h}
	if errW != nil || errH != nil || b.Validate() != nil {
		return fallback
	}
	return b
}

// clampBounds limits each side of b to limit. Invalid sizes pass through so
// the loop can reject them.
func clampBounds(b, limit scene.Bounds) scene.Bounds {
	if b.Validate() != nil {
		return b
	}
	return scene.Bounds{Width: min(b.Width, limit.Width), Height: min(b.Height, limit.Height)}
}
