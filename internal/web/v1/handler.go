package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kaustubhduse/medical-chatbot/internal/core/domain"
	"github.com/kaustubhduse/medical-chatbot/internal/core/token"
	"github.com/kaustubhduse/medical-chatbot/internal/logger"
	logicv1 "github.com/kaustubhduse/medical-chatbot/internal/logic/v1"
	"github.com/kaustubhduse/medical-chatbot/middleware"
)

// Handler groups the HTTP handlers for the user auth API.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth *logicv1.AuthService
}

// NewHandler creates a new Handler with the given AuthService.
func NewHandler(auth *logicv1.AuthService) *Handler {
	return &Handler{auth: auth}
}

// RegisterRoutes registers the user routes on the given router group.
// The profile and password routes sit behind the access-control gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, tokens *token.Manager) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)

	protected := rg.Group("", middleware.AuthMiddleware(tokens))
	protected.GET("/get-profile", h.GetProfile)
	protected.PUT("/update-profile", h.UpdateProfile)
	protected.PUT("/update-password", h.ChangePassword)
}

// Register handles POST /user/register. A successful registration does not
// authenticate; the user logs in afterwards.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	lg := logger.FromContext(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: "All fields are required"})
		return
	}

	if err := h.auth.Register(ctx, req); err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrMissingFields):
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: "All fields are required"})
		case errors.Is(err, logicv1.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: "Email already registered"})
		default:
			lg.Error().Err(err).Msg("Registration failed")
			internalError(c, err)
		}
		return
	}

	lg.Info().Str("email_domain", emailDomain(req.Email)).Msg("Registration successful")
	c.JSON(http.StatusCreated, domain.StatusResponse{Status: true, Message: "Registration successful"})
}

// Login handles POST /user/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	lg := logger.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: "All fields are required"})
		return
	}

	tok, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrMissingFields):
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: "All fields are required"})
		case errors.Is(err, logicv1.ErrInvalidCredentials):
			// Same response whether the email or the password was wrong.
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: "Invalid credentials"})
		default:
			lg.Error().Err(err).Msg("Login failed")
			internalError(c, err)
		}
		return
	}

	lg.Info().Msg("Login successful")
	c.JSON(http.StatusOK, domain.LoginResponse{Status: true, Message: "Login successful", Token: tok})
}

// GetProfile handles GET /user/get-profile.
func (h *Handler) GetProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	lg := logger.FromContext(ctx)

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, domain.ErrorResponse{Message: "Authorization required"})
		return
	}

	user, err := h.auth.Profile(ctx, userID)
	if err != nil {
		span.RecordError(err)

		if errors.Is(err, logicv1.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, domain.ErrorResponse{Message: "User not found"})
			return
		}
		lg.Error().Err(err).Msg("Profile lookup failed")
		internalError(c, err)
		return
	}

	// User's json tags exclude the password hash.
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /user/update-profile. Every field is optional;
// provided ones replace the stored values.
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	lg := logger.FromContext(ctx)

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, domain.ErrorResponse{Message: "Authorization required"})
		return
	}

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: "Invalid request body"})
		return
	}

	user, err := h.auth.UpdateProfile(ctx, userID, req)
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrUserNotFound):
			c.JSON(http.StatusNotFound, domain.ErrorResponse{Message: "User not found"})
		case errors.Is(err, logicv1.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: "Email already in use"})
		default:
			lg.Error().Err(err).Msg("Profile update failed")
			internalError(c, err)
		}
		return
	}

	lg.Info().Msg("Profile updated")
	c.JSON(http.StatusOK, domain.UpdateProfileResponse{
		Status:  true,
		Message: "Profile updated successfully",
		User:    domain.ProfilePayload{Name: user.Name, Email: user.Email},
	})
}

// ChangePassword handles PUT /user/update-password.
func (h *Handler) ChangePassword(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	lg := logger.FromContext(ctx)

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, domain.ErrorResponse{Message: "Authorization required"})
		return
	}

	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: "All fields are required"})
		return
	}

	if err := h.auth.ChangePassword(ctx, userID, req.PrevPassword, req.NewPassword); err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrMissingFields):
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: "All fields are required"})
		case errors.Is(err, logicv1.ErrUserNotFound):
			c.JSON(http.StatusNotFound, domain.ErrorResponse{Message: "User not found"})
		case errors.Is(err, logicv1.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Message: "Previous password is incorrect"})
		default:
			lg.Error().Err(err).Msg("Password update failed")
			internalError(c, err)
		}
		return
	}

	lg.Info().Msg("Password updated")
	c.JSON(http.StatusOK, domain.StatusResponse{Status: true, Message: "Password updated successfully"})
}

// internalError writes the 500 envelope: a generic message for clients plus
// the low-level failure description for operators. Wrapped store errors
// never contain passwords or hashes.
func internalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
		Message: "Something went wrong",
		Error:   err.Error(),
	})
}

// emailDomain returns the part after '@' for logging without recording the
// full address.
func emailDomain(email string) string {
	for i := len(email) - 1; i >= 0; i-- {
		if email[i] == '@' {
			return email[i+1:]
		}
	}
	return ""
}
