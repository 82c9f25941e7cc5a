package signals

// Vocabulary is the ordered list of recognized skills. ExtractSkills reports matches in
// this order, not in the order they appear in the text.
var Vocabulary = []string{
	"python", "java", "c++", "c", "javascript", "typescript", "node", "react", "angular", "vue",
	"html", "css", "tailwind", "bootstrap", "fastapi", "flask", "django", "spring", "mysql",
	"postgres", "mongodb", "redis", "docker", "kubernetes", "aws", "gcp", "azure", "git",
	"linux", "bash", "pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "llm",
	"langchain", "prompt engineering", "nlp", "cv", "ml", "dl", "data analysis", "rest api",
}
