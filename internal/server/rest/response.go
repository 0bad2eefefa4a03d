package rest

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/colorcheck/internal/common"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
}

type checkResponse struct {
	ID             int64    `json:"id"`
	HexColor       string   `json:"hex_color"`
	Pantone        string   `json:"pantone"`
	Notes          string   `json:"notes"`
	Status         string   `json:"status"`
	Points         []string `json:"points"`
	AlternativeHex string   `json:"alternative_hex"`
	CreatedAt      string   `json:"created_at"`
	User           string   `json:"user"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	UserName string `json:"username"`
	Role     string `json:"role"`
	APIToken string `json:"api_token,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func toCheckResponses(list []*models.ColorCheck) []checkResponse {
	out := make([]checkResponse, 0, len(list))
	for _, c := range list {
		points := c.Points
		if points == nil {
			points = []string{}
		}
		out = append(out, checkResponse{
			ID:             c.ID,
			HexColor:       c.HexColor,
			Pantone:        c.Pantone,
			Notes:          c.Notes,
			Status:         string(c.Status),
			Points:         points,
			AlternativeHex: c.AlternativeHex,
			CreatedAt:      formatTime(c.CreatedAt),
			User:           c.UserName,
		})
	}
	return out
}

func toUserResponses(list []*models.User) []userResponse {
	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, userResponse{ID: u.ID, UserName: u.UserName, Role: string(u.Role), APIToken: u.Token})
	}
	return out
}

// statusOf maps an error kind to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrorBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorAlreadyExists):
		// existing clients expect 400 for a taken username
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(status, errorResponse{Error: "internal error"})
		return
	}
	c.JSON(status, errorResponse{Error: common.Message(err, http.StatusText(status))})
}

// bindJSON decodes the request body into dst. An empty body leaves dst
// untouched.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return common.NewError(common.ErrorBadRequest, "invalid JSON body")
	}
	return nil
}
