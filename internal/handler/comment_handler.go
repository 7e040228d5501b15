package handler

import (
	"net/http"

	"ourlog/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// CommentInput defines the structure for writing a comment.
type CommentInput struct {
	PostID  uint   `json:"postId" binding:"required" example:"42"`
	Content string `json:"content" binding:"required" example:"nice post!"`
}

// CommentHandler serves comments.
type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Write godoc
// @Summary      Write a comment
// @Description  Writes a comment under a post. Commenting on someone else's post notifies the author.
// @Tags         comment
// @Accept       json
// @Produce      json
// @Param        input body CommentInput true "Comment"
// @Success      201  {integer}  uint
// @Failure      400  {object}  ErrorResponse "Unknown post"
// @Router       /comment/write [post]
func (h *CommentHandler) Write(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	commentID, err := h.comments.Write(token, input.PostID, input.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentID)
}

// List godoc
// @Summary      List comments
// @Description  Returns a post's comments, newest first.
// @Tags         comment
// @Produce      json
// @Param        postId  query  int  true  "Post ID"
// @Success      200  {array}  service.CommentItem
// @Failure      400  {object}  ErrorResponse "Unknown post"
// @Router       /comment/list [get]
func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := parsePostID(c, c.Query("postId"))
	if !ok {
		return
	}
	items, err := h.comments.List(postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Count godoc
// @Summary      Get a post's comment count
// @Tags         comment
// @Produce      json
// @Param        postId  query  int  true  "Post ID"
// @Success      200  {integer}  int64
// @Failure      400  {object}  ErrorResponse "Unknown post"
// @Router       /comment/count [get]
func (h *CommentHandler) Count(c *gin.Context) {
	postID, ok := parsePostID(c, c.Query("postId"))
	if !ok {
		return
	}
	count, err := h.comments.Count(postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, count)
}
