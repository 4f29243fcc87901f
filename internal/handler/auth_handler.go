package handler

import (
	"time"

	"cuti-dinas-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type LoginRequest struct {
	NIP      string `json:"nip" form:"nip"`
	Password string `json:"password" form:"password"`
}

type LoginDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Pegawai   ProfilDTO `json:"pegawai"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	res, err := h.uc.Login(c.UserContext(), req.NIP, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "Login berhasil", LoginDTO{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Pegawai:   profil(res.Pegawai),
	})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	p, err := h.uc.Profile(c.UserContext(), actorOf(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "Berhasil mengambil profil", profil(p))
}
