package handler

import (
	"io"
	"net/http"

	"ourlog/backend/internal/hub"
	"ourlog/backend/internal/service"
	"ourlog/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// SignupInput defines the non-file fields of the signup form.
type SignupInput struct {
	ID           string `form:"id" binding:"required" example:"testuser01"`
	Username     string `form:"username" binding:"required" example:"testuser"`
	Password     string `form:"password" binding:"required,min=8" example:"password123"`
	Introduction string `form:"introduction" example:"hello!"`
}

// UsernameResponse is returned by signin and signup.
type UsernameResponse struct {
	Username string `json:"username" example:"testuser"`
}

// endregion

// UserHandler serves accounts, profiles, search and notifications.
type UserHandler struct {
	users         *service.UserService
	notifications *service.NotificationService
	images        *storage.Store
	events        *hub.Hub
}

func NewUserHandler(users *service.UserService, notifications *service.NotificationService, images *storage.Store, events *hub.Hub) *UserHandler {
	return &UserHandler{users: users, notifications: notifications, images: images, events: events}
}

// region --- Auth Handlers ---

// Signup godoc
// @Summary      Sign up
// @Description  Creates a new user from a multipart form (optional profile image) and signs them in.
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           formData  string  true   "Login ID"
// @Param        username     formData  string  true   "Display name"
// @Param        password     formData  string  true   "Password"
// @Param        introduction formData  string  false  "Introduction text"
// @Param        image        formData  file    false  "Profile image (max 10MB)"
// @Success      201  {object}  UsernameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Login ID or username already exists"
// @Router       /user/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if taken, err := h.users.LoginIDTaken(input.ID); err != nil {
		abortWithError(c, err)
		return
	} else if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "login id already exists"})
		return
	}
	if taken, err := h.users.UsernameTaken(input.Username); err != nil {
		abortWithError(c, err)
		return
	} else if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}

	imageName, ok := h.saveUpload(c, "image", storage.ProfileDir, storage.MaxProfileImageSize)
	if !ok {
		return
	}

	token, err := h.users.Signup(service.SignupInput{
		Username:     input.Username,
		LoginID:      input.ID,
		Password:     input.Password,
		Introduction: input.Introduction,
		Image:        imageName,
	})
	if err != nil {
		if imageName != "" {
			h.images.Remove(storage.ProfileDir, imageName)
		}
		abortWithError(c, err)
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusCreated, UsernameResponse{Username: input.Username})
}

// Signin godoc
// @Summary      Sign in
// @Description  Verifies credentials, revokes any previous session and sets the session cookie.
// @Tags         user
// @Produce      json
// @Param        id  query  string  true  "Login ID"
// @Param        pw  query  string  true  "Password"
// @Success      200  {object}  UsernameResponse
// @Failure      400  {object}  ErrorResponse "Invalid login id or password"
// @Router       /user/signin [get]
func (h *UserHandler) Signin(c *gin.Context) {
	token, username, err := h.users.Signin(c.Query("id"), c.Query("pw"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusOK, UsernameResponse{Username: username})
}

// Signout godoc
// @Summary      Sign out
// @Description  Deletes the session behind the session cookie.
// @Tags         user
// @Produce      json
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Router       /user/signout [get]
func (h *UserHandler) Signout(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	if err := h.users.Signout(token); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ExistedID godoc
// @Summary      Check a login id
// @Description  Reports whether a login id is already registered.
// @Tags         user
// @Produce      json
// @Param        id  query  string  true  "Login ID"
// @Success      200  {boolean}  bool
// @Failure      400  {object}  ErrorResponse
// @Router       /user/existedId [get]
func (h *UserHandler) ExistedID(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	taken, err := h.users.LoginIDTaken(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, taken)
}

// ExistedUsername godoc
// @Summary      Check a username
// @Description  Reports whether a username is already registered.
// @Tags         user
// @Produce      json
// @Param        username  query  string  true  "Username"
// @Success      200  {boolean}  bool
// @Failure      400  {object}  ErrorResponse
// @Router       /user/existedUsername [get]
func (h *UserHandler) ExistedUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	taken, err := h.users.UsernameTaken(username)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, taken)
}

// endregion

// region --- Profile Handlers ---

// ProfileImage godoc
// @Summary      Get a profile image
// @Description  Streams a user's profile image.
// @Tags         user
// @Produce      image/*
// @Param        username  query  string  true  "Username"
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Router       /user/profileImage [get]
func (h *UserHandler) ProfileImage(c *gin.Context) {
	user, err := h.users.ByUsername(c.Query("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no profile image"})
		return
	}

	path, err := h.images.Path(storage.ProfileDir, user.Image)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Type", storage.ContentType(user.Image))
	c.File(path)
}

// Introduction godoc
// @Summary      Get an introduction
// @Description  Returns a user's introduction text.
// @Tags         user
// @Produce      json
// @Param        username  query  string  true  "Username"
// @Success      200  {string}  string
// @Failure      400  {object}  ErrorResponse
// @Router       /user/introduction [get]
func (h *UserHandler) Introduction(c *gin.Context) {
	user, err := h.users.ByUsername(c.Query("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Introduction)
}

// UpdateProfile godoc
// @Summary      Update the profile
// @Description  Updates the introduction and/or the profile image of the session's user.
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Param        introduction  formData  string  false  "New introduction"
// @Param        image         formData  file    false  "New profile image (max 10MB)"
// @Success      200  {boolean}  bool
// @Failure      400  {object}  ErrorResponse
// @Router       /user/updateProfile [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	user, err := h.users.UserBySession(token, false)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if introduction := c.PostForm("introduction"); introduction != "" {
		if err := h.users.UpdateIntroduction(user.ID, introduction); err != nil {
			abortWithError(c, err)
			return
		}
	}

	if _, err := c.FormFile("image"); err == nil {
		imageName, ok := h.saveUpload(c, "image", storage.ProfileDir, storage.MaxProfileImageSize)
		if !ok {
			return
		}
		if user.Image != "" {
			h.images.Remove(storage.ProfileDir, user.Image)
		}
		if err := h.users.UpdateImage(user.ID, imageName); err != nil {
			abortWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, true)
}

// PostCount godoc
// @Summary      Get a user's post count
// @Tags         user
// @Produce      json
// @Param        username  query  string  true  "Username"
// @Success      200  {integer}  int64
// @Failure      400  {object}  ErrorResponse
// @Router       /user/postCount [get]
func (h *UserHandler) PostCount(c *gin.Context) {
	count, err := h.users.PostCount(c.Query("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, count)
}

// Search godoc
// @Summary      Search users
// @Description  Searches usernames by substring; exact and prefix matches rank first.
// @Tags         user
// @Produce      json
// @Param        query  query  string  true  "Search query"
// @Success      200  {array}  string
// @Failure      400  {object}  ErrorResponse
// @Router       /user/search [get]
func (h *UserHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	users, err := h.users.Search(query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	usernames := make([]string, 0, len(users))
	for _, user := range users {
		usernames = append(usernames, user.Username)
	}
	c.JSON(http.StatusOK, usernames)
}

// endregion

// region --- Notification Handlers ---

// Notifications godoc
// @Summary      List notifications
// @Description  Returns every notification addressed to the session's user, newest first.
// @Tags         user
// @Produce      json
// @Success      200  {array}  service.NotificationItem
// @Failure      400  {object}  ErrorResponse
// @Router       /user/notification [get]
func (h *UserHandler) Notifications(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	items, err := h.notifications.List(token)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// NotificationStream godoc
// @Summary      Stream notifications
// @Description  Server-sent event stream of the session user's incoming notifications.
// @Tags         user
// @Produce      text/event-stream
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Router       /user/notificationStream [get]
func (h *UserHandler) NotificationStream(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}
	user, err := h.users.UserBySession(token, false)
	if err != nil {
		abortWithError(c, err)
		return
	}

	client := make(hub.Client, 16)
	h.events.Subscribe(user.ID, client)
	defer h.events.Unsubscribe(user.ID, client)

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("notification", string(message))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// endregion

// saveUpload stores an optional uploaded file. Returns the stored filename
// ("" when the field is absent) and whether the request may proceed; on
// failure the response has already been written.
func (h *UserHandler) saveUpload(c *gin.Context, field, dir string, maxSize int64) (string, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", true // no file uploaded
	}
	if file.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image too large"})
		return "", false
	}

	src, err := file.Open()
	if err != nil {
		abortWithError(c, err)
		return "", false
	}
	defer src.Close()

	name, err := h.images.Save(dir, src, file.Filename)
	if err != nil {
		abortWithError(c, err)
		return "", false
	}
	return name, true
}
