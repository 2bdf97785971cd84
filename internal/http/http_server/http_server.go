package http_server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files

	"lotauctiongo/internal/http/bidhandler"
	"lotauctiongo/internal/http/commenthandler"
	"lotauctiongo/internal/http/complainthandler"
	"lotauctiongo/internal/http/lothandler"
	"lotauctiongo/internal/services/bid"
	"lotauctiongo/internal/services/comment"
	"lotauctiongo/internal/services/complaint"
	"lotauctiongo/internal/services/lot"
	"lotauctiongo/internal/ws"
)

type Services struct {
	Lots       lot.ILotService
	Bids       bid.IBidService
	Comments   comment.ICommentService
	Complaints complaint.IComplaintService
}

type httpServer struct {
	listenPort uint16
	srv        http.Server
	ln         net.Listener
	services   Services
	wsSrv      *ws.WsServer
	ctx        context.Context
}

func NewHttpServer(ctx context.Context, listenPort uint16, wsSrv *ws.WsServer, services Services) *httpServer {
	return &httpServer{
		listenPort: listenPort,
		wsSrv:      wsSrv,
		services:   services,
		ctx:        ctx,
	}
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	routerEngine := gin.New()

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// websocket live bid feed
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// REST API
	lothandler.New(h.services.Lots).Register(routerEngine)
	bidhandler.New(h.services.Bids).Register(routerEngine)
	commenthandler.New(h.services.Comments).Register(routerEngine)
	complainthandler.New(h.services.Complaints).Register(routerEngine)

	h.srv = http.Server{
		Handler: routerEngine,
	}

	return h.srv.Serve(h.ln)
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn't finish in time
	}

	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
		log.Println("shutdown timeout (10 s)")
	}

	return nil
}
