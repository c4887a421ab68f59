package intelligence

import (
	"context"
	"fmt"

	"concierge/services/booking"
	"concierge/services/content"
	"concierge/utils"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// Tool names exposed to the model.
const (
	toolIntroduction     = "get_introduction"
	toolProjects         = "get_ai_projects"
	toolExperience       = "get_experience"
	toolEducation        = "get_education"
	toolSkills           = "get_skills"
	toolExtracurriculars = "get_extracurriculars"
	toolListSlots        = "list_available_slots"
	toolBookMeeting      = "book_meeting"
)

// Toolset binds the model's callable functions to the content library and
// the booking service.
type Toolset struct {
	Content *content.Library
	Booking booking.Service
}

func NewToolset(library *content.Library, bookingSvc booking.Service) *Toolset {
	return &Toolset{Content: library, Booking: bookingSvc}
}

// contentTools maps content tool names to their topics.
var contentTools = map[string]struct {
	topic       string
	description string
}{
	toolIntroduction:     {content.TopicIntroduction, "Get the introduction, background, and current role. Use when the user asks: who are you, tell me about yourself, introduction."},
	toolProjects:         {content.TopicProjects, "Get details about AI/ML projects. Use when the user asks about: projects, what have you built, portfolio, work samples."},
	toolExperience:       {content.TopicExperience, "Get work experience and professional history. Use when the user asks about: experience, work history, companies, career path, previous roles."},
	toolEducation:        {content.TopicEducation, "Get educational background and degrees. Use when the user asks about: education, degrees, university, where did you study."},
	toolSkills:           {content.TopicSkills, "Get technical skills and expertise. Use when the user asks about: skills, technologies, tools, programming languages, frameworks."},
	toolExtracurriculars: {content.TopicExtracurriculars, "Get achievements, awards, talks, and extracurricular activities. Use when the user asks about: achievements, awards, conferences, speaking, recognition."},
}

// Declarations returns the function declarations registered on the model.
func (t *Toolset) Declarations() []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(contentTools)+2)
	for _, name := range []string{
		toolIntroduction, toolProjects, toolExperience,
		toolEducation, toolSkills, toolExtracurriculars,
	} {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        name,
			Description: contentTools[name].description,
		})
	}

	decls = append(decls, &genai.FunctionDeclaration{
		Name:        toolListSlots,
		Description: "Show available 30-minute meeting slots. Call this when the user asks about availability or wants to schedule a meeting.",
	})

	decls = append(decls, &genai.FunctionDeclaration{
		Name:        toolBookMeeting,
		Description: "Book a meeting slot. Call this once the user has picked a slot number and provided their email and full name.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"user_email": {Type: genai.TypeString, Description: "The user's email address."},
				"slot_index": {Type: genai.TypeInteger, Description: "The 1-based slot number from the listing."},
				"user_name":  {Type: genai.TypeString, Description: "The user's full name (first and last)."},
			},
			Required: []string{"user_email", "slot_index", "user_name"},
		},
	})

	return decls
}

// Execute runs the named tool and returns its text result. Tool failures
// come back as user-facing text; the model folds them into its reply.
func (t *Toolset) Execute(ctx context.Context, name string, args map[string]any) string {
	if ct, ok := contentTools[name]; ok {
		return t.Content.Get(ct.topic)
	}

	switch name {
	case toolListSlots:
		return t.Booking.ListSlots(ctx)

	case toolBookMeeting:
		email, _ := args["user_email"].(string)
		userName, _ := args["user_name"].(string)
		slotIndex := 0
		switch v := args["slot_index"].(type) {
		case float64:
			slotIndex = int(v)
		case int64:
			slotIndex = int(v)
		case int:
			slotIndex = v
		}

		result := t.Booking.Book(ctx, email, slotIndex, userName)
		if !result.Success {
			return result.Reason
		}
		return fmt.Sprintf(
			"Meeting booked successfully!\n\n%s\n%s\nConfirmation sent to %s\n\nYou'll receive a confirmation email shortly, along with a Google Meet link before the meeting. Looking forward to connecting!",
			result.FormattedStart, userName, result.AttendeeEmail,
		)

	default:
		utils.GetLogger().Warn("model requested unknown tool", zap.String("tool", name))
		return fmt.Sprintf("Unknown tool: %s", name)
	}
}
