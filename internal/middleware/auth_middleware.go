package middleware

import (
	"strings"

	"cuti-dinas-backend/internal/auth"
	"cuti-dinas-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": message})
}

// Auth memvalidasi token Bearer lalu menyimpan actor ke c.Locals.
func Auth(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Ambil token dari Header Authorization
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "Token tidak ditemukan")
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			return unauthorized(c, "Format token harus Bearer")
		}

		// 2. Parse dan validasi token
		claims, err := tokens.Parse(strings.TrimSpace(tokenString))
		if err != nil {
			return unauthorized(c, "Token tidak valid atau kadaluwarsa")
		}

		// 3. Simpan identitas ke context
		c.Locals(actorKey, claims.Actor())
		c.Locals("nip", claims.NIP)
		return c.Next()
	}
}

// ActorFrom mengambil actor yang diset Auth. ok false bila route tidak dilindungi.
func ActorFrom(c *fiber.Ctx) (workflow.Actor, bool) {
	a, ok := c.Locals(actorKey).(workflow.Actor)
	return a, ok
}

// RequireCapability menolak actor yang perannya tidak memiliki kapabilitas yang diminta.
func RequireCapability(want workflow.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, ok := ActorFrom(c)
		if !ok {
			return unauthorized(c, "Token tidak ditemukan")
		}
		if !a.Role.Can(want) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Akses ditolak: peran Anda tidak dapat melakukan aksi ini",
			})
		}
		return c.Next()
	}
}
