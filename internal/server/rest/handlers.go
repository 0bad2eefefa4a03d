package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/colorcheck/internal/common"
	"github.com/dmitrijs2005/colorcheck/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) index(c *gin.Context) {
	c.String(http.StatusOK, "colorcheck service is running")
}

func (s *HTTPServer) colors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "colors will be listed here"})
}

type loginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	res, err := s.auth.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": res.Token, "role": res.Role})
}

type createCheckRequest struct {
	HexColor string   `json:"hex_color"`
	Pantone  string   `json:"pantone"`
	Notes    string   `json:"notes"`
	Points   []string `json:"points"`
}

func (s *HTTPServer) createCheck(c *gin.Context) {
	var req createCheckRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	check, err := s.checks.Create(c.Request.Context(), caller(c), services.CreateCheckInput{
		HexColor: req.HexColor,
		Pantone:  req.Pantone,
		Notes:    req.Notes,
		Points:   req.Points,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": check.ID, "created_at": formatTime(check.CreatedAt)})
}

func (s *HTTPServer) listChecks(c *gin.Context) {
	list, err := s.checks.List(c.Request.Context(), caller(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCheckResponses(list))
}

type requestCheckRequest struct {
	Pantone        string   `json:"pantone"`
	Points         []string `json:"points"`
	AlternativeHex string   `json:"alternative_hex"`
}

func (s *HTTPServer) requestCheck(c *gin.Context) {
	var req requestCheckRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	check, err := s.checks.Request(c.Request.Context(), caller(c), services.RequestCheckInput{
		Pantone:        req.Pantone,
		Points:         req.Points,
		AlternativeHex: req.AlternativeHex,
	})
	if err != nil {
		var ce *common.Error
		if errors.As(err, &ce) {
			s.writeError(c, err)
			return
		}
		// store failures are reported verbatim on this route
		s.logger.Error(c.Request.Context(), "color request failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Color request saved", "id": check.ID})
}

func (s *HTTPServer) listRequests(c *gin.Context) {
	list, err := s.checks.ListRequests(c.Request.Context(), caller(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCheckResponses(list))
}

func (s *HTTPServer) listUsers(c *gin.Context) {
	list, err := s.users.List(c.Request.Context(), caller(c), s.exposeTokens)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponses(list))
}

type createUserRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *HTTPServer) createUser(c *gin.Context) {
	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	u, err := s.users.Create(c.Request.Context(), caller(c), services.CreateUserInput{
		UserName: req.UserName,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "username": u.UserName, "api_token": u.Token})
}
