package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/andesco/bbrun/pkg/bbrun"

	"github.com/gofiber/fiber/v2"
)

// Board is a Fiber handler fronting a single board. GET serves the frontend
// page, POST forwards a run to the board's endpoint and streams the result
// back. Anything else is 405.
func Board(board string, opts bbrun.FrontendOptions, runner *bbrun.Runner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet:
			return renderFrontend(c, board, opts)
		case fiber.MethodPost:
			return runBoard(c, runner, bbrun.BoardToEndpoint(board))
		}

		c.Set(fiber.HeaderAllow, "GET, POST")
		c.Status(fiber.StatusMethodNotAllowed)
		return nil
	}
}

func renderFrontend(c *fiber.Ctx, board string, opts bbrun.FrontendOptions) error {
	page, err := bbrun.RenderPage(board, opts)
	if errors.Is(err, bbrun.ErrFrontendDisabled) {
		c.Status(fiber.StatusMethodNotAllowed)
		return nil
	}
	if err != nil {
		log.Printf("ERROR: Could not render frontend for %s: %v", board, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not render frontend")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.Send(page)
}

func runBoard(c *fiber.Ctx, runner *bbrun.Runner, endpoint string) error {
	resp, err := runner.Run(c.UserContext(), endpoint, c.Body())
	switch {
	case errors.Is(err, bbrun.ErrKeyNotSet):
		// The frontend reads the body as an event stream, so this stays 200.
		return sendError(c, fiber.StatusOK, err)
	case errors.Is(err, bbrun.ErrMalformedBody):
		return sendError(c, fiber.StatusBadRequest, err)
	case err != nil:
		log.Printf("ERROR: Run against %s failed: %v", endpoint, err)
		return sendError(c, fiber.StatusBadGateway, err)
	}

	c.Status(resp.StatusCode)
	c.Context().Response.Header.SetStatusMessage([]byte(statusText(resp)))
	for key, values := range resp.Header {
		// Framing is redone for the outbound response.
		if key == fiber.HeaderContentLength || key == fiber.HeaderTransferEncoding {
			continue
		}
		for _, value := range values {
			c.Response().Header.Add(key, value)
		}
	}

	// fasthttp closes the body once it has been written out.
	c.Context().SetBodyStream(resp.Body, int(resp.ContentLength))
	return nil
}

func sendError(c *fiber.Ctx, status int, err error) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(bbrun.ErrorLine(err.Error()))
}

// statusText returns the reason phrase of resp, e.g. "Service Unavailable".
func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	if text == "" || text == resp.Status {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
