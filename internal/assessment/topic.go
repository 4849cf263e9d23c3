package assessment

import "strings"

// Topic is a keyword-derived category attached to an assessment question.
type Topic string

const (
	TopicPassword Topic = "password_security"
	TopicPhishing Topic = "phishing_detection"
	TopicPrivacy  Topic = "privacy_protection"
	TopicStranger Topic = "stranger_safety"
	TopicNetwork  Topic = "network_security"
	TopicIncident Topic = "incident_response"
	TopicGeneral  Topic = "general_cybersecurity"
)

// topicKeywords is checked in order; the first topic with a matching
// keyword wins.
var topicKeywords = []struct {
	topic    Topic
	keywords []string
}{
	{TopicPassword, []string{"password"}},
	{TopicPhishing, []string{"phishing", "email", "link", "urgent"}},
	{TopicPrivacy, []string{"social media", "share", "privacy", "personal information"}},
	{TopicStranger, []string{"stranger", "meet", "don't know"}},
	{TopicNetwork, []string{"wi-fi", "wifi", "network", "router"}},
	{TopicIncident, []string{"download", "suspicious", "virus", "hacked"}},
}

// TagQuestion returns the topic of a question text.
func TagQuestion(text string) Topic {
	lower := strings.ToLower(text)
	for _, tk := range topicKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(lower, kw) {
				return tk.topic
			}
		}
	}
	return TopicGeneral
}

// Text renders a topic for prompts and display, e.g. "phishing detection".
func (t Topic) Text() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Areas splits graded questions into weak and strong topics. Both lists
// are de-duplicated in first-seen order.
func Areas(results []QuestionResult) (weak, strong []Topic) {
	weak, strong = []Topic{}, []Topic{}
	seenWeak := make(map[Topic]bool)
	seenStrong := make(map[Topic]bool)
	for _, r := range results {
		topic := TagQuestion(r.Question)
		if r.Correct {
			if !seenStrong[topic] {
				seenStrong[topic] = true
				strong = append(strong, topic)
			}
			continue
		}
		if !seenWeak[topic] {
			seenWeak[topic] = true
			weak = append(weak, topic)
		}
	}
	return weak, strong
}

// TopicsText joins topics for display, or returns def when there are none.
func TopicsText(topics []Topic, def string) string {
	if len(topics) == 0 {
		return def
	}
	parts := make([]string, len(topics))
	for i, t := range topics {
		parts[i] = t.Text()
	}
	return strings.Join(parts, ", ")
}
