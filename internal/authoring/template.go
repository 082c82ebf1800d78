package authoring

import (
	"strings"

	"github.com/Veraticus/sift/internal/model"
)

// CancelToken, typed alone as the whole document, abandons authoring.
const CancelToken = "cancel"

// IsCancel reports whether an authored buffer is the cancel token.
func IsCancel(body []byte) bool {
	return strings.EqualFold(strings.TrimSpace(string(body)), CancelToken)
}

const filterTemplate = `# Rows are kept when the evaluation is true.
# operators: == != > < >= <= (NUMBER, TIMESTAMP)
#            == != CONTAINS STARTS_WITH DOES_NOT_CONTAIN FUZZ_MIN_SCORE_<0-100> (TEXT)
# Type "cancel" as the only content to abort.
expressions:
  - [Exp1, {column: value, operator: ">", compare_with: "1000", compare_as: NUMBER}]
  - [Exp2, {column: name, operator: CONTAINS, compare_with: "school", compare_as: TEXT}]
evaluation: "Exp1 && Exp2"
`

const deriveTemplate = `# Writes "1" where the evaluation is true and "0" elsewhere.
# Type "cancel" as the only content to abort.
new_column_name: flag
expressions:
  - [Exp1, {column: value, operator: ">", compare_with: "1000", compare_as: NUMBER}]
evaluation: "Exp1"
`

const categorizeTemplate = `# Each row gets the first category whose evaluation is true, else "Uncategorized".
# Type "cancel" as the only content to abort.
new_column_name: size
expressions:
  - category_name: big
    category_filters:
      - Exp1: {column: value, operator: ">", compare_with: "5000", compare_as: NUMBER}
    category_evaluation: "Exp1"
  - category_name: medium
    category_filters:
      - Exp1: {column: value, operator: ">", compare_with: "1000", compare_as: NUMBER}
      - Exp2: {column: value, operator: "<", compare_with: "5000", compare_as: NUMBER}
    category_evaluation: "Exp1 && Exp2"
`

// Template returns a starting document for the kind.
func Template(kind model.SpecKind) string {
	switch kind {
	case model.SpecKindDerive:
		return deriveTemplate
	case model.SpecKindCategorize:
		return categorizeTemplate
	default:
		return filterTemplate
	}
}
