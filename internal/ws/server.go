package ws

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lotauctiongo/internal/apperrors"
	"lotauctiongo/internal/services/lot"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 12 * time.Second
	pingPeriod = 3 * time.Second // must be < pongWait
)

// WsServer streams bid events to lot watchers. The feed is one-way: bids are
// placed over REST, clients only listen here.
type WsServer struct {
	hub    *Hub
	subMgr *subscriptionManager
	lotSvc lot.ILotService

	upgrader websocket.Upgrader
}

func NewWsServer(h *Hub, rdc *redis.Client, lotSvc lot.ILotService) *WsServer {
	return &WsServer{
		hub:    h,
		subMgr: newSubscriptionManager(rdc, h),
		lotSvc: lotSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 512,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev-only
		},
	}
}

// Handle is the Gin entry point: GET /ws?lot_id=<id>.
func (s *WsServer) Handle(ginCtx *gin.Context) {
	lotID, err := strconv.ParseInt(ginCtx.Query("lot_id"), 10, 64)
	if err != nil || lotID <= 0 {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"error": "lot_id is required"})
		return
	}

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(512)

	wsConn := &clientConn{rawConn: rawConn}
	s.hub.Join(lotID, wsConn)
	s.subMgr.Subscribe(lotID) // may be a no-op (already subscribed)

	// Initial snapshot so late joiners see the current top bid.
	if err := s.pushInitialSnapshot(ginCtx.Request.Context(), lotID, wsConn); err != nil &&
		!errors.Is(err, apperrors.ErrNotFound) {
		zap.L().Warn("ws.snapshot", zap.Int64("lot_id", lotID), zap.Error(err))
	}

	go s.reader(lotID, wsConn)
	go s.pinger(wsConn)
}

func (s *WsServer) pushInitialSnapshot(ctx context.Context, lotID int64, conn *clientConn) error {
	ctx, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	l, err := s.lotSvc.GetLot(ctx, lotID)
	if err != nil {
		return err
	}
	return conn.writeJSON(gin.H{
		"event": "snapshot",
		"body": gin.H{
			"lot_id":   l.ID,
			"last_bet": l.LastBet,
		},
	})
}

// reader drains the connection so pongs and close frames are processed;
// anything the client sends is ignored.
func (s *WsServer) reader(lotID int64, conn *clientConn) {
	defer func() {
		s.hub.Leave(lotID, conn)
		s.subMgr.Unsubscribe(lotID)
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.rawConn.ReadMessage(); err != nil {
			return // client closed or errored
		}
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.write(websocket.PingMessage, nil); err != nil {
			_ = conn.rawConn.Close()
			return
		}
	}
}
