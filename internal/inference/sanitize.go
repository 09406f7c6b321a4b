package inference

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textSanitizer は言語モデルが生成したテキストからマークアップを除去する。
// モデル出力はそのままクライアントへプッシュ・永続化されるため、
// タグを一切許可しないStrictPolicyで正規化する。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// newTextSanitizer はtextSanitizerを生成する。
func newTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean はマークアップを除去し、前後の空白を取り除いたテキストを返す。
func (s *textSanitizer) Clean(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}

// CleanCardText はカードのtitle/descriptionを正規化する。
func (s *textSanitizer) CleanCardText(title, description string) (string, string) {
	return s.Clean(title), s.Clean(description)
}
