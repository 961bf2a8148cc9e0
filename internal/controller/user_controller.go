package controller

import (
	"counseling-be/internal/dto"
	"counseling-be/internal/pkg/serverutils"
	"counseling-be/internal/service"
	"counseling-be/pkg/rocketchat"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	CreateEnquiry(ctx *fiber.Ctx) error
}

type userController struct {
	accountService service.IUserAccountService
	enquiryService service.IEnquiryService
}

func NewUserController(
	accountService service.IUserAccountService,
	enquiryService service.IEnquiryService,
) IUserController {
	return &userController{
		accountService: accountService,
		enquiryService: enquiryService,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users/v1")
	h.Post("/register", c.Register)

	protected := h.Group("")
	protected.Use(serverutils.JwtMiddleware) // ✅ PROTECTED
	protected.Post("/sessions/:sessionId/enquiry", c.CreateEnquiry)
}

func (c *userController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.accountService.CreateAccount(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Account created", res))
}

func (c *userController) CreateEnquiry(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid user")
	}

	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var req dto.CreateEnquiryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	creds := rocketchat.Credentials{UserID: req.RcUserID, Token: req.RcAuthToken}
	if err := c.enquiryService.CreateEnquiryMessage(ctx.Context(), userId, sessionId, req.Message, creds); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Enquiry created", nil))
}
