package content

import (
	"os"
	"path/filepath"
	"strings"

	"concierge/utils"

	"go.uber.org/zap"
)

// Topic names understood by the library. Each maps to one document under
// the content directory.
const (
	TopicIntroduction     = "introduction"
	TopicProjects         = "projects"
	TopicExperience       = "experience"
	TopicEducation        = "education"
	TopicSkills           = "skills"
	TopicExtracurriculars = "extracurriculars"
)

type topic struct {
	file     string
	fallback string
}

// topics carries a compiled-in fallback per document so the assistant keeps
// answering when a content file is missing from the deployment.
var topics = map[string]topic{
	TopicIntroduction: {
		file:     "Introduction.txt",
		fallback: "Introduction: Sahil Sharma - Senior Data Scientist, AI & Data at Singapore Airlines, specializing in GenAI and RAG systems. Google Developer Expert in AI/ML.",
	},
	TopicProjects: {
		file:     "AI_Projects.txt",
		fallback: "AI Projects: 12+ production AI projects including AMS AI Agent, Advanced RAG Chatbot, Curie HR Chatbot, and more.",
	},
	TopicExperience: {
		file:     "Experience.txt",
		fallback: "Experience: 7+ years in AI/ML. Currently at Singapore Airlines. Previously: X0PA AI, Munich Re, EY, KPMG, PayU.",
	},
	TopicEducation: {
		file:     "Education.txt",
		fallback: "Education: Master's in Data Science from National University of Singapore (NUS).",
	},
	TopicSkills: {
		file:     "Skills.txt",
		fallback: "Skills: Python, PyTorch, TensorFlow, LangGraph, RAG, OpenAI, AWS, Hugging Face, BERT, and 40+ technologies.",
	},
	TopicExtracurriculars: {
		file:     "ExtraCurriculars.txt",
		fallback: "Achievements: Google Developer Expert (GDE) in AI/ML, CEO Award at Singapore Airlines, conference speaker.",
	},
}

// Library resolves named topics to their document text.
type Library struct {
	dir string
}

func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Get reads the document backing the named topic, returning the compiled-in
// fallback when the file is absent or unreadable. Unknown topics yield an
// empty string.
func (l *Library) Get(name string) string {
	t, ok := topics[strings.ToLower(name)]
	if !ok {
		return ""
	}

	data, err := os.ReadFile(filepath.Join(l.dir, t.file))
	if err != nil {
		utils.GetLogger().Debug("content file unavailable, using fallback",
			zap.String("topic", name), zap.Error(err))
		return t.fallback
	}
	return string(data)
}
