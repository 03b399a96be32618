package extract

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// contractSchema mirrors the key set the structuring prompt demands. Nothing
// is required: the parser tolerates any subset. Validation is an audit signal
// only; a violation is logged and the lenient coercion proceeds regardless.
const contractSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "merchant_name": { "type": "string" },
    "date":          { "type": "string" },
    "total_amount":  { "type": "number" },
    "line_items": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name":     { "type": "string" },
          "price":    { "type": "number" },
          "quantity": { "type": "number" }
        }
      }
    },
    "category": {
      "enum": ["Food", "Transport", "Shopping", "Health", "Entertainment", "Bills", "Groceries", "Others"]
    },
    "notes": { "type": "string" }
  }
}`

var contractValidator = jsonschema.MustCompileString("receipt-extraction.schema.json", contractSchema)

func auditContract(doc map[string]any, logger *zap.Logger) {
	// jsonschema validates generic decoded values, so hand it the map directly.
	var v any = doc
	if err := contractValidator.Validate(v); err != nil {
		logger.Warn("Extraction response violates the output contract",
			zap.Error(err),
		)
	}
}
