package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/linguaday/backend/internal/infrastructure/auth"
	"github.com/linguaday/backend/internal/infrastructure/validate"
	"github.com/linguaday/backend/internal/review"
)

// AnswerPost body of the answer operation
type AnswerPost struct {
	Correct *bool `json:"correct" validate:"required"`
}

type ReviewHandler struct {
	reviewUseCase review.ReviewUseCase
	jwtUtil       *auth.JWTUtil
	validator     validate.Validator
}

func NewReviewHandler(
	ReviewUseCase review.ReviewUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *ReviewHandler {
	handler := &ReviewHandler{ReviewUseCase, JWTUtil, Validator}
	return handler
}

// HandleGetSession load-or-init the review session for a day
func (rh *ReviewHandler) HandleGetSession(c echo.Context) (err error) {
	claims := rh.jwtUtil.GetContextToken(c)

	day, paramErr := dayParam(c)
	if paramErr != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", []*validate.FieldError{paramErr}))
	}

	state, err := rh.reviewUseCase.GetSession(c.Request().Context(), claims.UID, day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionView(state))
}

// HandleFlip toggle the answer-revealed flag of the current card
func (rh *ReviewHandler) HandleFlip(c echo.Context) (err error) {
	claims := rh.jwtUtil.GetContextToken(c)

	day, paramErr := dayParam(c)
	if paramErr != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", []*validate.FieldError{paramErr}))
	}

	state, err := rh.reviewUseCase.Flip(c.Request().Context(), claims.UID, day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionView(state))
}

// HandleAnswer record an answer outcome and advance the queue
func (rh *ReviewHandler) HandleAnswer(c echo.Context) (err error) {
	claims := rh.jwtUtil.GetContextToken(c)

	day, paramErr := dayParam(c)
	if paramErr != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", []*validate.FieldError{paramErr}))
	}

	post := new(AnswerPost)
	if err = c.Bind(post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if fieldErrs := rh.validator.Struct(post); fieldErrs != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", fieldErrs))
	}

	state, err := rh.reviewUseCase.Answer(c.Request().Context(), claims.UID, day, *post.Correct)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionView(state))
}

// HandleReset restart the session from a fresh shuffle
func (rh *ReviewHandler) HandleReset(c echo.Context) (err error) {
	claims := rh.jwtUtil.GetContextToken(c)

	day, paramErr := dayParam(c)
	if paramErr != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", []*validate.FieldError{paramErr}))
	}

	state, err := rh.reviewUseCase.Reset(c.Request().Context(), claims.UID, day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionView(state))
}

// SessionView wire shape of a session snapshot. The original card order is
// withheld so clients cannot peek at the remaining schedule.
type SessionView struct {
	Day       int                  `json:"day"`
	Status    review.SessionStatus `json:"status"`
	Stats     review.SessionStats  `json:"stats"`
	Current   interface{}          `json:"current_card"`
	Revealed  bool                 `json:"revealed"`
	Remaining int                  `json:"remaining"`
	Mastered  int                  `json:"mastered"`
}

func sessionView(state *review.SessionState) *SessionView {
	view := &SessionView{
		Day:       state.Day,
		Status:    state.Status,
		Stats:     state.Stats,
		Revealed:  state.Revealed,
		Remaining: state.Remaining(),
	}
	if card := state.CurrentCard(); card != nil {
		view.Current = card
	}
	for _, progress := range state.Progress {
		if progress.State == review.CardMastered {
			view.Mastered++
		}
	}
	return view
}
