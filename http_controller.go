package accounts

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

// RegisterAccountRoutes mounts the JSON account endpoints on the app.
func RegisterAccountRoutes(app fiber.Router, opts ...AccountsControllerOption) {

	controller := NewAccountsController(opts...)

	app.Post(controller.Routes.Register, controller.Register).
		Name("accounts.register")

	app.Post(controller.Routes.ConfirmEmail, controller.ConfirmEmail).
		Name("accounts.confirm-email")

	app.Post(controller.Routes.ValidateLogin, controller.ValidateLogin).
		Name("accounts.validate-login")

	app.Post(controller.Routes.ForgotPassword, controller.ForgotPassword).
		Name("accounts.forgot-password")

	app.Post(controller.Routes.ResetPassword, controller.ResetPassword).
		Name("accounts.reset-password")

	app.Get(controller.Routes.AccountID, controller.AccountIDByEmail).
		Name("accounts.id-by-email")
}

type AccountsControllerRoutes struct {
	Register       string
	ConfirmEmail   string
	ValidateLogin  string
	ForgotPassword string
	ResetPassword  string
	AccountID      string
}

type AccountsController struct {
	Debug   bool
	Logger  Logger
	Service AccountOperations
	Tokens  *TokenMinter
	Routes  *AccountsControllerRoutes
}

type AccountsControllerOption func(*AccountsController) *AccountsController

// WithControllerService sets the operations engine backing the endpoints.
func WithControllerService(service AccountOperations) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Service = service
		return c
	}
}

// WithControllerLogger overrides the controller logger.
func WithControllerLogger(logger Logger) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerTokens enables session token minting on validated logins.
func WithControllerTokens(tokens *TokenMinter) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Tokens = tokens
		return c
	}
}

// WithControllerDebug toggles payload dumps on registration and login.
func WithControllerDebug(debug bool) AccountsControllerOption {
	return func(c *AccountsController) *AccountsController {
		c.Debug = debug
		return c
	}
}

func NewAccountsController(opts ...AccountsControllerOption) *AccountsController {
	c := &AccountsController{
		Logger: defLogger{},
		Routes: &AccountsControllerRoutes{
			Register:       "/accounts/register",
			ConfirmEmail:   "/accounts/confirm-email",
			ValidateLogin:  "/accounts/validate-login",
			ForgotPassword: "/accounts/forgot-password",
			ResetPassword:  "/accounts/reset-password",
			AccountID:      "/accounts/id",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing AccountOperations in accounts controller...")
	}

	return c
}

func (a *AccountsController) Register(ctx *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload: %v", err)
		return respondParseError(ctx)
	}

	if a.Debug {
		fmt.Println("======= ACCOUNT REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("===============================")
	}

	res := a.Service.Register(ctx.UserContext(), *payload)
	return respondEnvelope(ctx, res, fiber.Map{
		"message": "Account created. Check your email for a verification code.",
	})
}

func (a *AccountsController) ConfirmEmail(ctx *fiber.Ctx) error {
	payload := new(ConfirmEmailRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("confirm email parse payload: %v", err)
		return respondParseError(ctx)
	}

	res := a.Service.ConfirmEmail(ctx.UserContext(), payload.Email, payload.Code)
	return respondEnvelope(ctx, res, fiber.Map{
		"message": "Email confirmed.",
	})
}

func (a *AccountsController) ValidateLogin(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("validate login parse payload: %v", err)
		return respondParseError(ctx)
	}

	if a.Debug {
		fmt.Println("======= ACCOUNT LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	res := a.Service.ValidateLogin(ctx.UserContext(), payload.Email, payload.Password)
	if !res.Success {
		return respondFailure(ctx, res.Result)
	}

	body := fiber.Map{
		"id":    res.Payload.ID,
		"email": res.Payload.Email,
		"roles": res.Payload.Roles,
	}

	if a.Tokens != nil {
		token, err := a.Tokens.Mint(res.Payload)
		if err != nil {
			a.Logger.Error("mint session token for %s: %v", res.Payload.Email, err)
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": MsgUnexpectedError,
			})
		}
		body["token"] = token
	}

	return ctx.Status(res.StatusCode).JSON(body)
}

func (a *AccountsController) ForgotPassword(ctx *fiber.Ctx) error {
	payload := new(ForgotPasswordRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("forgot password parse payload: %v", err)
		return respondParseError(ctx)
	}

	res := a.Service.ForgotPassword(ctx.UserContext(), payload.Email)
	return respondEnvelope(ctx, res, fiber.Map{
		"message": "If the account exists, a reset link is on its way.",
	})
}

func (a *AccountsController) ResetPassword(ctx *fiber.Ctx) error {
	payload := new(ResetPasswordRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("reset password parse payload: %v", err)
		return respondParseError(ctx)
	}

	res := a.Service.ResetPassword(ctx.UserContext(), payload.UserID, payload.Token, payload.NewPassword)
	return respondEnvelope(ctx, res, fiber.Map{
		"message": "Password updated.",
	})
}

func (a *AccountsController) AccountIDByEmail(ctx *fiber.Ctx) error {
	email := ctx.Query("email")

	res := a.Service.AccountIDByEmail(ctx.UserContext(), email)
	if !res.Success {
		return respondFailure(ctx, res.Result)
	}

	return ctx.Status(res.StatusCode).JSON(fiber.Map{
		"id": res.Payload,
	})
}

func respondParseError(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Failed to parse request body",
	})
}

func respondFailure(ctx *fiber.Ctx, res Result) error {
	return ctx.Status(res.StatusCode).JSON(fiber.Map{
		"error": res.Error,
	})
}

func respondEnvelope(ctx *fiber.Ctx, res Result, body fiber.Map) error {
	if !res.Success {
		return respondFailure(ctx, res)
	}
	return ctx.Status(res.StatusCode).JSON(body)
}
