package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"quizzes-service/internal/app"
	"quizzes-service/internal/domain"
)

// WSHandler streams newly recorded solutions of a quiz to its owner.
type WSHandler struct {
	auth     Authenticator
	quizzes  *app.QuizService
	feed     *app.SolutionFeed
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(auth Authenticator, quizzes *app.QuizService, feed *app.SolutionFeed, log *zap.Logger) *WSHandler {
	return &WSHandler{
		auth:    auth,
		quizzes: quizzes,
		feed:    feed,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type subscribedPayload struct {
	Quiz string `json:"quiz"`
}

// ServeWS authenticates the caller, checks quiz ownership and then forwards
// feed events until either side goes away. Browsers cannot set headers on a
// websocket handshake, so the token may also come from the query string.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizUUID := r.URL.Query().Get("quiz")
	if quizUUID == "" {
		writeError(w, h.log, domain.Validationf("missing quiz"))
		return
	}
	token := bearerToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	p, err := h.auth.Principal(r.Context(), token)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := requireOwner(p, quizUUID, "quizzes"); err != nil {
		writeError(w, h.log, err)
		return
	}
	if _, err := h.quizzes.Get(r.Context(), quizUUID); err != nil {
		writeError(w, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe(quizUUID)
	defer cancel()

	// Only this goroutine writes; the reader exists to notice the peer closing.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(outboundMessage[subscribedPayload]{Type: "subscribed", Payload: subscribedPayload{Quiz: quizUUID}}); err != nil {
		return
	}
	h.log.Debug("solution feed subscribed", zap.String("quiz", quizUUID), zap.String("user", p.UUID))

	for {
		select {
		case sol, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[domain.Solution]{Type: "solution", Payload: sol}); err != nil {
				h.log.Debug("ws write error", zap.Error(err))
				return
			}
		case <-readerDone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
