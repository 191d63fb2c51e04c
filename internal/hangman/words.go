package hangman

// Words is the fixed list secrets are drawn from.
var Words = []string{
	"programming", "rust", "bot", "hangman", "database",
	"function", "variable", "algorithm", "network", "server",
	"client", "protocol", "compiler", "library", "framework",
	"testing", "debugging", "performance", "security", "encryption",
}
