package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/linguaday/backend/internal/infrastructure/auth"
	"github.com/linguaday/backend/internal/infrastructure/validate"
	"github.com/linguaday/backend/internal/lesson"
)

type LessonHandler struct {
	lessonUseCase lesson.LessonUseCase
	jwtUtil       *auth.JWTUtil
}

func NewLessonHandler(LessonUseCase lesson.LessonUseCase, JWTUtil *auth.JWTUtil) *LessonHandler {
	handler := &LessonHandler{LessonUseCase, JWTUtil}
	return handler
}

// HandleGetLesson serve one day of content. Locked and unpublished days are
// rejected here through the use case, which is the gate the UI relies on.
func (lh *LessonHandler) HandleGetLesson(c echo.Context) (err error) {
	claims := lh.jwtUtil.GetContextToken(c)

	day, paramErr := dayParam(c)
	if paramErr != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", []*validate.FieldError{paramErr}))
	}

	result, err := lh.lessonUseCase.GetLesson(c.Request().Context(), claims.UID, day)
	if err != nil {
		if errors.Is(err, lesson.ErrDayLocked) {
			return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, result)
}
