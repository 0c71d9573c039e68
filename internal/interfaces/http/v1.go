package http

import (
	"github.com/labstack/echo/v4"
	infra "github.com/linguaday/backend/internal/infrastructure"
)

func v1Endpoint(
	websocket *infra.Websocket,
	UserHandler *UserHandler,
	RoadmapHandler *RoadmapHandler,
	LessonHandler *LessonHandler,
	ReviewHandler *ReviewHandler,
	SessionFeedHandler *SessionFeedHandler,
	jwtMiddleware echo.MiddlewareFunc,
	refreshMiddleware echo.MiddlewareFunc,
	requestIDMiddleware echo.MiddlewareFunc,
	traceLoggerMiddleware echo.MiddlewareFunc,
) *endpoint {
	return &endpoint{
		apiVersion:  "api/v1",
		middlewares: []echo.MiddlewareFunc{requestIDMiddleware, traceLoggerMiddleware},
		groups: []*apiGroup{
			{
				prefix: "/user",
				routes: []*route{
					{"POST", "/login", UserHandler.HandleSignIn, nil},
					{"PUT", "/sign-out", UserHandler.HandleSignOut, nil},
					{"POST", "/sign-up", UserHandler.HandleSignUp, nil},
					{"GET", "/exists", UserHandler.HandleUserExists, nil},
				},
			},
			{
				prefix:      "/roadmap",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "", RoadmapHandler.HandleGetRoadmap, nil},
				},
			},
			{
				prefix:      "/lesson",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "/:day", LessonHandler.HandleGetLesson, nil},
					{"POST", "/:day/complete", RoadmapHandler.HandleCompleteDay, nil},
				},
			},
			{
				prefix:      "/review",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"GET", "/:day", ReviewHandler.HandleGetSession, nil},
					{"POST", "/:day/flip", ReviewHandler.HandleFlip, nil},
					{"POST", "/:day/answer", ReviewHandler.HandleAnswer, nil},
					{"POST", "/:day/reset", ReviewHandler.HandleReset, nil},
				},
			},
			{
				prefix: "/ws",
				routes: []*route{
					{"GET", "/review", websocket.WithHeartbeat(SessionFeedHandler.HandleFeed), nil},
				},
			},
		},
	}
}
