package chunk

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// cl100kEncoding is the BPE encoding used by gpt-3.5/gpt-4 and, in practice,
// most embedding models chunks end up feeding. It loads lazily on first use
// since tiktoken-go fetches its rank table the first time it's needed.
var (
	tokenizerOnce sync.Once
	tokenizer     *tiktoken.Tiktoken
)

func getTokenizer() *tiktoken.Tiktoken {
	tokenizerOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return
		}
		tokenizer = enc
	})
	return tokenizer
}

// estimateTokens counts tokens in content using the cl100k_base tokenizer,
// falling back to the chars-per-token heuristic if the tokenizer couldn't
// be loaded (e.g. no network access for the rank table).
func estimateTokens(content string) int {
	if tok := getTokenizer(); tok != nil {
		return len(tok.Encode(content, nil, nil))
	}
	return len(content) / TokensPerChar
}
