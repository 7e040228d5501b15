package handler

import (
	"net/http"
	"strconv"
	"time"

	"ourlog/backend/internal/models"
	"ourlog/backend/internal/service"
	"ourlog/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// PostResponse is a full post view.
type PostResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	ImageCount  int       `json:"imageCount"`
	CreatedDate time.Time `json:"createdDate"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
}

// ThumbnailResponse is the condensed view used by post grids.
type ThumbnailResponse struct {
	Image       bool      `json:"image"`
	Title       string    `json:"title"`
	CreatedDate time.Time `json:"createdDate"`
	Likes       int       `json:"likes"`
}

func newPostResponse(post models.Post) PostResponse {
	return PostResponse{
		ID:          post.ID,
		Title:       post.Title,
		Content:     post.Content,
		Author:      post.Author.Username,
		ImageCount:  len(post.Images),
		CreatedDate: post.CreatedAt,
		Likes:       len(post.Likes),
		Comments:    len(post.Comments),
	}
}

// endregion

// PostHandler serves posts, attachments and the like/save toggles.
type PostHandler struct {
	posts  *service.PostService
	images *storage.Store
}

func NewPostHandler(posts *service.PostService, images *storage.Store) *PostHandler {
	return &PostHandler{posts: posts, images: images}
}

// Write godoc
// @Summary      Write a post
// @Description  Creates a post with up to 10 image attachments for the session's user.
// @Tags         post
// @Accept       multipart/form-data
// @Produce      json
// @Param        title    formData  string  true   "Title"
// @Param        content  formData  string  true   "Content"
// @Param        images   formData  file    false  "Attachments (max 10, each max 20MB)"
// @Success      201  {integer}  uint
// @Failure      400  {object}  ErrorResponse
// @Router       /post/write [post]
func (h *PostHandler) Write(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	content := c.PostForm("content")
	if title == "" || content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files := form.File["images"]
	if len(files) > storage.MaxPostImageCount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many images"})
		return
	}

	var fileNames []string
	cleanup := func() {
		for _, name := range fileNames {
			h.images.Remove(storage.PostDir, name)
		}
	}
	for _, file := range files {
		if file.Size > storage.MaxPostImageSize {
			cleanup()
			c.JSON(http.StatusBadRequest, gin.H{"error": "image too large"})
			return
		}
		src, err := file.Open()
		if err != nil {
			cleanup()
			abortWithError(c, err)
			return
		}
		name, err := h.images.Save(storage.PostDir, src, file.Filename)
		src.Close()
		if err != nil {
			cleanup()
			abortWithError(c, err)
			return
		}
		fileNames = append(fileNames, name)
	}

	postID, err := h.posts.Create(token, title, content, fileNames)
	if err != nil {
		cleanup()
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, postID)
}

// List godoc
// @Summary      List posts
// @Description  Returns one page of posts, newest first, 10 per page.
// @Tags         post
// @Produce      json
// @Param        page  query  int  false  "Page number"  default(1)
// @Success      200  {object}  PaginatedResponse[PostResponse]
// @Failure      400  {object}  ErrorResponse
// @Router       /post/list [get]
func (h *PostHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	posts, err := h.posts.List(page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	total, err := h.posts.Count()
	if err != nil {
		abortWithError(c, err)
		return
	}

	responses := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, newPostResponse(post))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, service.PageSize))
}

// UserPosts godoc
// @Summary      List a user's post ids
// @Tags         post
// @Produce      json
// @Param        username  query  string  true  "Username"
// @Success      200  {array}  uint
// @Failure      400  {object}  ErrorResponse "Unknown user"
// @Router       /post/userPosts [get]
func (h *PostHandler) UserPosts(c *gin.Context) {
	posts, err := h.posts.ListByUser(c.Query("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	postIDs := make([]uint, 0, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
	}
	c.JSON(http.StatusOK, postIDs)
}

// Thumbnail godoc
// @Summary      Get a post thumbnail
// @Tags         post
// @Produce      json
// @Param        postId  query  int  true  "Post ID"
// @Success      200  {object}  ThumbnailResponse
// @Failure      400  {object}  ErrorResponse "Unknown post"
// @Router       /post/thumbnail [get]
func (h *PostHandler) Thumbnail(c *gin.Context) {
	postID, ok := parsePostID(c, c.Query("postId"))
	if !ok {
		return
	}
	post, err := h.posts.Get(postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ThumbnailResponse{
		Image:       len(post.Images) > 0,
		Title:       post.Title,
		CreatedDate: post.CreatedAt,
		Likes:       len(post.Likes),
	})
}

// Count godoc
// @Summary      Get the total post count
// @Tags         post
// @Produce      json
// @Success      200  {integer}  int64
// @Router       /post/count [get]
func (h *PostHandler) Count(c *gin.Context) {
	count, err := h.posts.Count()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, count)
}

// GetByID godoc
// @Summary      Get a post
// @Tags         post
// @Produce      json
// @Param        id  path  int  true  "Post ID"
// @Success      200  {object}  PostResponse
// @Failure      400  {object}  ErrorResponse "Unknown post"
// @Router       /post/{id} [get]
func (h *PostHandler) GetByID(c *gin.Context) {
	postID, ok := parsePostID(c, c.Param("id"))
	if !ok {
		return
	}
	post, err := h.posts.Get(postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(*post))
}

// IsLiking godoc
// @Summary      Check the like state
// @Description  Reports whether the session's user has liked the post.
// @Tags         post
// @Produce      json
// @Param        id  path  int  true  "Post ID"
// @Success      200  {boolean}  bool
// @Failure      400  {object}  ErrorResponse
// @Router       /post/{id}/isLiking [get]
func (h *PostHandler) IsLiking(c *gin.Context) {
	h.joinRowState(c, h.posts.IsLiking)
}

// IsSaved godoc
// @Summary      Check the save state
// @Description  Reports whether the session's user has saved the post.
// @Tags         post
// @Produce      json
// @Param        id  path  int  true  "Post ID"
// @Success      200  {boolean}  bool
// @Failure      400  {object}  ErrorResponse
// @Router       /post/{id}/isSaved [get]
func (h *PostHandler) IsSaved(c *gin.Context) {
	h.joinRowState(c, h.posts.IsSaved)
}

// ToggleLike godoc
// @Summary      Toggle a like
// @Description  Likes the post, or unlikes it if already liked. Liking someone else's post notifies the author.
// @Tags         post
// @Produce      json
// @Param        id  path  int  true  "Post ID"
// @Success      200
// @Failure      400  {object}  ErrorResponse "Unknown post"
// @Router       /post/{id}/toggleLike [patch]
func (h *PostHandler) ToggleLike(c *gin.Context) {
	h.toggle(c, h.posts.ToggleLike)
}

// ToggleSave godoc
// @Summary      Toggle a save
// @Description  Saves the post, or unsaves it if already saved.
// @Tags         post
// @Produce      json
// @Param        id  path  int  true  "Post ID"
// @Success      200
// @Failure      400  {object}  ErrorResponse "Unknown post"
// @Router       /post/{id}/toggleSave [patch]
func (h *PostHandler) ToggleSave(c *gin.Context) {
	h.toggle(c, h.posts.ToggleSave)
}

// Image godoc
// @Summary      Get a post attachment
// @Description  Streams the index-th attachment of the post.
// @Tags         post
// @Produce      image/*
// @Param        id     path  int  true  "Post ID"
// @Param        index  path  int  true  "Attachment index"
// @Success      200
// @Failure      400  {object}  ErrorResponse "Unknown post or attachment"
// @Router       /post/{id}/image/{index} [get]
func (h *PostHandler) Image(c *gin.Context) {
	postID, ok := parsePostID(c, c.Param("id"))
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image index"})
		return
	}

	post, err := h.posts.Get(postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if index >= len(post.Images) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image does not exist"})
		return
	}

	name := post.Images[index]
	path, err := h.images.Path(storage.PostDir, name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Type", storage.ContentType(name))
	c.File(path)
}

func (h *PostHandler) toggle(c *gin.Context, toggle func(string, uint) error) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	postID, ok := parsePostID(c, c.Param("id"))
	if !ok {
		return
	}
	if err := toggle(token, postID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *PostHandler) joinRowState(c *gin.Context, query func(uint, string) (bool, error)) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	postID, ok := parsePostID(c, c.Param("id"))
	if !ok {
		return
	}
	state, err := query(postID, token)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func parsePostID(c *gin.Context, raw string) (uint, bool) {
	postID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return 0, false
	}
	return uint(postID), true
}
