package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/coursehook/internal/errors"
	eventDomain "github.com/allisson/coursehook/internal/event/domain"
	"github.com/allisson/coursehook/internal/event/http/dto"
	eventMocks "github.com/allisson/coursehook/internal/event/usecase/mocks"
	"github.com/allisson/coursehook/internal/httputil"
)

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*EventHandler, *eventMocks.MockEventUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &eventMocks.MockEventUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewEventHandler(mockUseCase, logger), mockUseCase
}

// createTestContext creates a test Gin context with the given request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			bodyReader = bytes.NewBufferString(raw)
		} else {
			bodyBytes, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(bodyBytes)
		}
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func testEvent(state eventDomain.DeliveryState) *eventDomain.Event {
	now := time.Now().UTC()
	return &eventDomain.Event{
		ID:             uuid.Must(uuid.NewV7()),
		Type:           eventDomain.EventTypeUpdate,
		AffectedObject: eventDomain.AffectedObjectAssignment,
		CourseID:       "c1",
		EntityID:       "assignment-9",
		CreatedAt:      now,
		UpdatedAt:      now,
		DeliveryState:  state,
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestEventHandler_AppendHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		related := "group-2"
		request := dto.AppendEventRequest{
			Type:            "INSERT",
			AffectedObject:  "USER_GROUP_RELATION",
			CourseID:        "c1",
			EntityID:        "user-1",
			RelatedEntityID: &related,
		}
		expected := testEvent(eventDomain.DeliveryStatePending)
		expected.Type = eventDomain.EventTypeInsert
		expected.AffectedObject = eventDomain.AffectedObjectUserGroupRelation
		expected.EntityID = "user-1"
		expected.RelatedEntityID = &related

		mockUseCase.On("Append", mock.Anything, mock.MatchedBy(func(input *eventDomain.AppendEventInput) bool {
			return input.Type == eventDomain.EventTypeInsert &&
				input.AffectedObject == eventDomain.AffectedObjectUserGroupRelation &&
				input.CourseID == "c1" &&
				input.EntityID == "user-1" &&
				input.RelatedEntityID != nil && *input.RelatedEntityID == related
		})).Return(expected, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/events", request)

		handler.AppendHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.EventResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, expected.ID.String(), response.ID)
		assert.Equal(t, "PENDING", response.DeliveryState)
		assert.Equal(t, 0, response.AttemptCount)
		require.NotNil(t, response.RelatedEntityID)
		assert.Equal(t, related, *response.RelatedEntityID)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/events", "{not json")

		handler.AppendHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w).Error)
	})

	t.Run("Error_UnknownAffectedObject", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		request := dto.AppendEventRequest{
			Type:           "INSERT",
			AffectedObject: "COURSE",
			CourseID:       "c1",
			EntityID:       "user-1",
		}
		c, w := createTestContext(http.MethodPost, "/v1/events", request)

		handler.AppendHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "validation_error", response.Error)
		assert.Contains(t, response.Message, "affected_object")
	})

	t.Run("Error_MissingCourseID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		request := dto.AppendEventRequest{
			Type:           "REMOVE",
			AffectedObject: "USER",
			EntityID:       "user-1",
		}
		c, w := createTestContext(http.MethodPost, "/v1/events", request)

		handler.AppendHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeError(t, w).Message, "course_id")
	})

	t.Run("Error_StorageFailure", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		request := dto.AppendEventRequest{
			Type:           "UPDATE",
			AffectedObject: "GROUP",
			CourseID:       "c1",
			EntityID:       "group-1",
		}
		mockUseCase.On("Append", mock.Anything, mock.Anything).
			Return(nil, apperrors.WrapStorage(errors.New("disk full"), "failed to create event")).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/events", request)

		handler.AppendHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "storage_unavailable", decodeError(t, w).Error)
	})
}

func TestEventHandler_ListHandler(t *testing.T) {
	t.Run("Success_DefaultPagination", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		events := []*eventDomain.Event{
			testEvent(eventDomain.DeliveryStatePending),
			testEvent(eventDomain.DeliveryStateFailed),
		}
		mockUseCase.On("List", mock.Anything, (*eventDomain.DeliveryState)(nil), 0, 50).
			Return(events, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/events", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListEventsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 2)
		assert.Equal(t, events[0].ID.String(), response.Data[0].ID)
		assert.Equal(t, "FAILED", response.Data[1].DeliveryState)
	})

	t.Run("Success_StateFilter", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("List", mock.Anything, mock.MatchedBy(func(state *eventDomain.DeliveryState) bool {
			return state != nil && *state == eventDomain.DeliveryStateAbandoned
		}), 10, 5).Return([]*eventDomain.Event{}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/events?state=ABANDONED&offset=10&limit=5", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})

	t.Run("Error_InvalidState", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/events?state=LOST", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeError(t, w).Message, "invalid state parameter")
	})

	t.Run("Error_InvalidLimit", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/events?limit=1000", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_UseCaseFailure", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("List", mock.Anything, mock.Anything, 0, 50).
			Return(nil, errors.New("boom")).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/events", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal_error", decodeError(t, w).Error)
	})
}

func TestEventHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		event := testEvent(eventDomain.DeliveryStateDelivered)
		deliveredAt := event.CreatedAt.Add(time.Minute)
		event.DeliveredAt = &deliveredAt
		event.AttemptCount = 1
		mockUseCase.On("Get", mock.Anything, event.ID).Return(event, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/events/"+event.ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: event.ID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.EventResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "DELIVERED", response.DeliveryState)
		assert.Equal(t, 1, response.AttemptCount)
		assert.NotNil(t, response.DeliveredAt)
	})

	t.Run("Error_InvalidUUID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/events/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeError(t, w).Message, "must be a valid UUID")
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		eventID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Get", mock.Anything, eventID).
			Return(nil, eventDomain.ErrEventNotFound).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/events/"+eventID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: eventID.String()}}

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeError(t, w).Error)
	})
}

func TestEventHandler_RequeueHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		event := testEvent(eventDomain.DeliveryStatePending)
		event.AttemptCount = 5
		mockUseCase.On("Requeue", mock.Anything, event.ID).Return(event, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/events/"+event.ID.String()+"/requeue", nil)
		c.Params = gin.Params{{Key: "id", Value: event.ID.String()}}

		handler.RequeueHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.EventResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "PENDING", response.DeliveryState)
		assert.Equal(t, 5, response.AttemptCount)
	})

	t.Run("Error_NotAbandoned", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		eventID := uuid.Must(uuid.NewV7())
		mockUseCase.On("Requeue", mock.Anything, eventID).
			Return(nil, eventDomain.ErrInvalidTransition).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/events/"+eventID.String()+"/requeue", nil)
		c.Params = gin.Params{{Key: "id", Value: eventID.String()}}

		handler.RequeueHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "conflict", decodeError(t, w).Error)
	})

	t.Run("Error_InvalidUUID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/events/x/requeue", nil)
		c.Params = gin.Params{{Key: "id", Value: "x"}}

		handler.RequeueHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
