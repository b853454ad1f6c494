package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/resp"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	queueSize  = 16
)

type OwnSubscriber interface {
	SubscribeToOwn(ctx context.Context, identityID string, onChange func(updated, previous entity.CourierApplication)) (func(), error)
}

// ChangeMessage คือสิ่งที่ส่งไปให้ client ทาง WS
type ChangeMessage struct {
	Type string                    `json:"type"`
	New  entity.CourierApplication `json:"new"`
	Old  entity.CourierApplication `json:"old"`
}

type ApplicationStream struct {
	subs     OwnSubscriber
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func NewApplicationStream(subs OwnSubscriber, log *logrus.Logger) *ApplicationStream {
	return &ApplicationStream{
		subs: subs,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log.WithField("component", "ws"),
	}
}

// WS route: /ws/applications/me
// handler บล็อกจนกว่า connection จะปิด
func (s *ApplicationStream) HandleWebSocket(c *gin.Context) {
	ctx := c.Request.Context()
	p, ok := services.PrincipalFrom(ctx)
	if !ok {
		resp.Unauthorized(c, "missing token")
		return
	}

	queue := make(chan ChangeMessage, queueSize)
	overflow := make(chan struct{})
	var overflowOnce sync.Once

	// --- สมัครก่อน upgrade เพื่อให้ตอบ 403 ได้
	dispose, err := s.subs.SubscribeToOwn(ctx, p.UserID, func(updated, previous entity.CourierApplication) {
		select {
		case queue <- ChangeMessage{Type: "application.updated", New: updated, Old: previous}:
		default:
			overflowOnce.Do(func() { close(overflow) })
		}
	})
	if err != nil {
		resp.Error(c, err)
		return
	}
	defer dispose()

	// --- Upgrade HTTP → WebSocket
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("ws upgrade error")
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go s.readLoop(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg := <-queue:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.log.WithError(err).Debug("ws write error")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-overflow:
			s.log.WithField("userId", p.UserID).Warn("ws subscriber too slow, closing")
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too slow"),
				time.Now().Add(writeWait))
			return
		case <-done:
			return
		}
	}
}

// readLoop: client ไม่ได้ส่งอะไรมา แค่รอ close/pong
func (s *ApplicationStream) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
