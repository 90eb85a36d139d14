package cli

import (
	"fmt"

	"floor-backend/internal/auth"
	"floor-backend/internal/models"
	"floor-backend/internal/repositories"
	"floor-backend/internal/services"
)

type UserAddCmd struct {
	Email    string `arg:"" help:"Login email."`
	Name     string `short:"n" help:"Display name." required:""`
	Role     string `short:"r" help:"Role (admin|supervisor|analyst|mechanic|qc)." default:"supervisor"`
	Password string `help:"Login password." required:"" env:"LINECTL_PASSWORD"`
	Passcode string `help:"Station passcode for sign-offs."`
}

func (c *UserAddCmd) Run(ctx *Context) error {
	st, err := ctx.Store()
	if err != nil {
		return err
	}
	users := services.NewUserService(repositories.NewUserRepository(st), auth.NewJWTManager(ctx.Config), ctx.Log)

	u, err := users.CreateUser(ctx.Ctx, &models.CreateUserRequest{
		Name:     c.Name,
		Email:    c.Email,
		Password: c.Password,
		Role:     c.Role,
		Passcode: c.Passcode,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created %s %s (%s)\n", u.Role, u.Email, u.ID)
	return nil
}
