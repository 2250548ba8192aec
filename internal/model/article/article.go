package article

// DefaultTopic is the topic sentinel meaning "no particular preference".
const DefaultTopic = "general"

// Article is one entry of the reading catalog.
type Article struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Topics  []string `json:"topics" yaml:"topics"`
	Summary string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	URL     string   `json:"url,omitempty" yaml:"url,omitempty"`
	Body    string   `json:"body,omitempty" yaml:"body,omitempty"`
}

// HasTopic reports whether the article is tagged with topic.
func (a Article) HasTopic(topic string) bool {
	for _, t := range a.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Seed provides the built-in reading list.
func Seed() []Article {
	return []Article{
		{
			ID:      "understanding-anxiety",
			Title:   "Understanding Anxiety: What Your Body Is Telling You",
			Topics:  []string{"anxiety", "anxious", "panic", "worry"},
			Summary: "How the stress response works and simple ways to calm it when it fires at the wrong time.",
			URL:     "https://www.nimh.nih.gov/health/topics/anxiety-disorders",
		},
		{
			ID:      "managing-stress",
			Title:   "Everyday Stress Management",
			Topics:  []string{"stress", "stressed", "overwhelmed", "work"},
			Summary: "Practical techniques for breaking big pressures into manageable pieces.",
			URL:     "https://www.apa.org/topics/stress/tips",
		},
		{
			ID:      "better-sleep",
			Title:   "Sleep Hygiene for a Restless Mind",
			Topics:  []string{"sleep", "tired", "insomnia"},
			Summary: "Routines and environment changes that make falling asleep easier.",
			URL:     "https://www.sleepfoundation.org/sleep-hygiene",
		},
		{
			ID:      "coping-with-sadness",
			Title:   "Coping with Sadness and Low Mood",
			Topics:  []string{"depression", "sad", "lonely", "hopeless"},
			Summary: "Recognising low mood, small steps that help, and when to reach out for support.",
			URL:     "https://www.nimh.nih.gov/health/topics/depression",
		},
		{
			ID:      "mindfulness-basics",
			Title:   "Mindfulness Basics: Five Minutes a Day",
			Topics:  []string{"mindfulness", "calm", "meditation", "general"},
			Summary: "A beginner's guide to short daily mindfulness practice.",
			URL:     "https://www.mindful.org/meditation/mindfulness-getting-started/",
		},
		{
			ID:      "healthy-relationships",
			Title:   "Building Supportive Relationships",
			Topics:  []string{"relationships", "friends", "family", "lonely"},
			Summary: "How connection supports wellbeing and ways to strengthen the ties you have.",
			URL:     "https://www.mentalhealth.org.uk/explore-mental-health/a-z-topics/relationships-and-community",
		},
		{
			ID:      "gratitude-practice",
			Title:   "The Science of Gratitude",
			Topics:  []string{"gratitude", "grateful", "happy", "general"},
			Summary: "Why noticing good things changes how we feel, and how to make it a habit.",
			URL:     "https://greatergood.berkeley.edu/topic/gratitude/definition",
		},
		{
			ID:      "handling-anger",
			Title:   "Handling Anger Constructively",
			Topics:  []string{"anger", "angry", "frustrated"},
			Summary: "Recognising early signs of anger and turning it into clear communication.",
			URL:     "https://www.apa.org/topics/anger/control",
		},
	}
}
