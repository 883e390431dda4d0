package chat

import "strings"

// stopWords are question scaffolding that never identifies a merchant or
// category, so they are stripped before searching transactions.
var stopWords = map[string]struct{}{
	"what": {}, "where": {}, "when": {}, "how": {}, "much": {},
	"does": {}, "did": {}, "spent": {}, "cost": {}, "money": {},
	"show": {}, "give": {}, "list": {}, "tell": {},
	"transaction": {}, "transactions": {}, "payment": {}, "payments": {},
}

const punctuation = "?.,!"

// ExtractKeywords lowercases the question, strips punctuation and returns
// the tokens longer than two characters that are not stop words. An empty
// result means the question has nothing worth searching for.
func ExtractKeywords(question string) []string {
	fields := strings.Fields(strings.ToLower(question))

	keywords := []string{}
	for _, field := range fields {
		token := strings.Trim(field, punctuation)
		if len(token) <= 2 {
			continue
		}
		if _, skip := stopWords[token]; skip {
			continue
		}
		keywords = append(keywords, token)
	}
	return keywords
}
