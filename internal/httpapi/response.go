package httpapi

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/gofiber/fiber/v2"
)

// prettyJSON writes v as indented JSON, matching the original server's
// pretty-printed response bodies (original_source/src/server/top.rs's
// PrettyJson responder).
func prettyJSON(c *fiber.Ctx, status int, v interface{}) error {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(body)
}

// threadsEnvelope is the `{"threads": [...]}` wrapper every /threads
// response is returned in (spec.md §6).
type threadsEnvelope struct {
	Threads interface{} `json:"threads"`
}
