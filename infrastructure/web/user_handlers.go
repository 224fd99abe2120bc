package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleRegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	user, err := s.deps.Users.Register(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.deps.Users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, newUserResponse(user))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePair(c *gin.Context) {
	var req PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	result, err := s.deps.Pairing.Pair(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPairResponse(result))
}
