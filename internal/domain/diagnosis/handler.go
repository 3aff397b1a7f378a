package diagnosis

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/diagnose", h.Diagnose)
	api.POST("/chat", h.Chat)
}

// DiagnoseRequest is the body of POST /diagnose.
type DiagnoseRequest struct {
	Text     string          `json:"text"`
	Language string          `json:"language"`
	Context  *PatientContext `json:"context,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message  string          `json:"message"`
	Language string          `json:"language"`
	Context  *PatientContext `json:"context,omitempty"`
}

// ChatResponse is the reply to a chat message. HealthData and HealthRecord
// are absent for greetings; HealthRecord is also absent when no symptom was
// detected.
type ChatResponse struct {
	Response     string        `json:"response"`
	Language     string        `json:"language"`
	HealthData   *Result       `json:"health_data,omitempty"`
	HealthRecord *HealthRecord `json:"health_record,omitempty"`
}

var greetings = map[string]bool{
	"HI":      true,
	"HELLO":   true,
	"HELLO O": true,
}

func (h *Handler) Diagnose(c echo.Context) error {
	var req DiagnoseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	res := h.svc.GenerateResponse(c.Request().Context(), req.Text, req.Language, req.Context)
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message cannot be empty")
	}
	lang := h.svc.Language(req.Language)

	if greetings[strings.ToUpper(msg)] {
		return c.JSON(http.StatusOK, ChatResponse{
			Response: h.svc.Welcome(string(lang)),
			Language: string(lang),
		})
	}

	res := h.svc.GenerateResponse(c.Request().Context(), msg, string(lang), req.Context)
	out := ChatResponse{
		Response:   res.Response,
		Language:   string(lang),
		HealthData: &res,
	}
	if rec, ok := res.HealthRecord(); ok {
		out.HealthRecord = &rec
	}
	return c.JSON(http.StatusOK, out)
}
