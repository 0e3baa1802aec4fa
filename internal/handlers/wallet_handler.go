package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/wallet"
)

type WalletHandler struct {
	Gate   *auth.Gate
	Wallet *wallet.WalletService
}

func NewWalletHandler(gate *auth.Gate, w *wallet.WalletService) *WalletHandler {
	return &WalletHandler{Gate: gate, Wallet: w}
}

func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	u, err := currentUser(c, h.Gate)
	if err != nil {
		return fail(c, err)
	}
	ledger, err := h.Wallet.ListTransactions(c.UserContext(), u.ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"balance":      u.WalletBalance,
		"transactions": ledger,
	})
}
