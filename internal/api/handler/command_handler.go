package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wsapp/storefront/internal/command"
)

// Invoker runs named commands. Implemented by *command.Registry.
type Invoker interface {
	Invoke(ctx context.Context, name string, payload []byte) (any, error)
	Names() []command.Name
}

// CommandHandler exposes the command registry to the desktop front end.
type CommandHandler struct {
	commands Invoker
}

func NewCommandHandler(commands Invoker) *CommandHandler {
	return &CommandHandler{commands: commands}
}

type commandsResponse struct {
	Commands []command.Name `json:"commands"`
}

// Invoke runs one command with the request body as its argument payload.
//
// @Summary      Invoke a command
// @Description  Runs list-users, create-user, list-products, create-product, list-orders or create-order.
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        name  path      string  true   "Command name"
// @Param        body  body      object  false  "Command arguments"
// @Success      200   {object}  any
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Failure      504   {object}  map[string]string
// @Router       /commands/{name} [post]
func (h *CommandHandler) Invoke(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read request body")
	}

	result, err := h.commands.Invoke(c.Request().Context(), c.Param("name"), body)
	if err != nil {
		// Rendered by the central HTTPErrorHandler.
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// List returns the registered command names.
//
// @Summary      List commands
// @Tags         commands
// @Produce      json
// @Success      200  {object}  commandsResponse
// @Router       /commands [get]
func (h *CommandHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, commandsResponse{Commands: h.commands.Names()})
}
