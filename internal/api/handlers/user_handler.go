package handlers

import (
	"FreshTrack/domain"
	"FreshTrack/internal/api/presenters"
	"FreshTrack/pkg/jwt"
	"FreshTrack/pkg/user"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		SignUp(c *fiber.Ctx) error
		SignIn(c *fiber.Ctx) error
		SignOut(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
	}

	userHandler struct {
		userService  user.UserService
		validator    *validator.Validate
		jwtService   jwt.JWTService
		secureCookie bool
	}
)

func NewUserHandler(userService user.UserService, validator *validator.Validate, jwtService jwt.JWTService, secureCookie bool) UserHandler {
	return &userHandler{
		userService:  userService,
		validator:    validator,
		jwtService:   jwtService,
		secureCookie: secureCookie,
	}
}

func (h *userHandler) SignUp(c *fiber.Ctx) error {
	req := new(domain.SignUpRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return validationFailed(c, domain.MessageFailedSignUp, err)
	}

	res, err := h.userService.SignUp(c.Context(), *req)
	if err != nil {
		return failed(c, domain.MessageFailedSignUp, err)
	}

	h.setTokenCookie(c, res.Token, time.Now().Add(h.jwtService.TokenTTL()))
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSignUp)
}

func (h *userHandler) SignIn(c *fiber.Ctx) error {
	req := new(domain.SignInRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return validationFailed(c, domain.MessageFailedSignIn, err)
	}

	res, err := h.userService.SignIn(c.Context(), *req)
	if err != nil {
		return failed(c, domain.MessageFailedSignIn, err)
	}

	h.setTokenCookie(c, res.Token, time.Now().Add(h.jwtService.TokenTTL()))
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSignIn)
}

func (h *userHandler) SignOut(c *fiber.Ctx) error {
	h.setTokenCookie(c, "", time.Unix(0, 0))
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessSignOut)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.userService.Me(c.Context(), userID)
	if err != nil {
		return failed(c, domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) setTokenCookie(c *fiber.Ctx, token string, expires time.Time) {
	sameSite := fiber.CookieSameSiteLaxMode
	if h.secureCookie {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	c.Cookie(&fiber.Cookie{
		Name:     domain.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: sameSite,
	})
}
