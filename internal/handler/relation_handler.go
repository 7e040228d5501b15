package handler

import (
	"net/http"
	"strconv"

	"ourlog/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// RelationHandler serves the friend request/accept/break flows and the
// derived relation queries.
type RelationHandler struct {
	friends *service.FriendshipService
}

func NewRelationHandler(friends *service.FriendshipService) *RelationHandler {
	return &RelationHandler{friends: friends}
}

// RequestFriend godoc
// @Summary      Send a friend request
// @Description  Sends a friend request from the session's user to the target username.
// @Tags         friendship
// @Produce      json
// @Param        username  query  string  true  "Target username"
// @Success      200
// @Failure      400  {object}  ErrorResponse "Unknown user or already friends"
// @Router       /user/requestFriend [post]
func (h *RelationHandler) RequestFriend(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	if err := h.friends.Request(token, c.Query("username")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// AcceptFriend godoc
// @Summary      Accept a friend request
// @Description  Accepts the friend request carried by the given notification id.
// @Tags         friendship
// @Produce      json
// @Param        nid  query  int  true  "Notification ID of the request"
// @Success      200
// @Failure      400  {object}  ErrorResponse "Invalid request or already friends"
// @Router       /user/acceptFriend [post]
func (h *RelationHandler) AcceptFriend(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	nid, err := strconv.ParseUint(c.Query("nid"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := h.friends.Accept(token, uint(nid)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// BreakFriend godoc
// @Summary      Break a friendship
// @Description  Removes the friendship between the session's user and the target username.
// @Tags         friendship
// @Produce      json
// @Param        username  query  string  true  "Target username"
// @Success      200
// @Failure      400  {object}  ErrorResponse "Unknown user or not friends"
// @Router       /user/breakFriend [post]
func (h *RelationHandler) BreakFriend(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	if err := h.friends.Break(token, c.Query("username")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Relation godoc
// @Summary      Get the relation to a user
// @Description  Derives the relation from the session's user toward the target username. 2 self, 1 friends, 0 pending, -1 none.
// @Tags         friendship
// @Produce      json
// @Param        username  query  string  true  "Target username"
// @Success      200  {integer}  int
// @Failure      400  {object}  ErrorResponse "Unknown user"
// @Router       /user/relation [get]
func (h *RelationHandler) Relation(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	status, err := h.friends.Relation(token, c.Query("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, int(status))
}

// FriendsCount godoc
// @Summary      Get the friends count
// @Description  Returns the size of the session user's friends set.
// @Tags         friendship
// @Produce      json
// @Success      200  {integer}  int
// @Failure      400  {object}  ErrorResponse
// @Router       /user/friends [get]
func (h *RelationHandler) FriendsCount(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	count, err := h.friends.FriendsCount(token)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, count)
}
