package http

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/linguaday/backend/internal/infrastructure/auth"
	"github.com/linguaday/backend/internal/review"
)

// sessionFeedRequest client message on the review feed channel
type sessionFeedRequest struct {
	Day int `json:"day"`
}

// SessionFeedHandler pushes review session snapshots over a websocket so a
// second device (or tab) can mirror the session without polling
type SessionFeedHandler struct {
	reviewUseCase review.ReviewUseCase
	jwtUtil       *auth.JWTUtil
}

func NewSessionFeedHandler(ReviewUseCase review.ReviewUseCase, JWTUtil *auth.JWTUtil) *SessionFeedHandler {
	return &SessionFeedHandler{ReviewUseCase, JWTUtil}
}

// HandleFeed one request/response turn: read a day number, reply with the
// current session snapshot. Runs inside the heartbeat wrapper loop.
func (sh *SessionFeedHandler) HandleFeed(c echo.Context, conn *websocket.Conn) error {
	_, payload, err := conn.ReadMessage()
	if err != nil {
		return err
	}

	request := new(sessionFeedRequest)
	if err := json.Unmarshal(payload, request); err != nil {
		return conn.WriteJSON(NewRESTStandardError(400, "malformed feed request"))
	}

	tokenStr, err := sh.jwtUtil.ExtractToken(c)
	if err != nil {
		return err
	}
	claims, err := sh.jwtUtil.Validate(tokenStr)
	if err != nil {
		return err
	}

	state, err := sh.reviewUseCase.GetSession(c.Request().Context(), claims.UID, request.Day)
	if err != nil {
		return err
	}
	return conn.WriteJSON(sessionView(state))
}
