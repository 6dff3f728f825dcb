package assistant

import "strings"

type Topic string

const (
	TopicEmergency Topic = "emergency"
	TopicSleep     Topic = "sleep"
	TopicDiet      Topic = "diet"
	TopicExercise  Topic = "exercise"
	TopicStress    Topic = "stress"
	TopicGeneral   Topic = "general"
)

type rule struct {
	topic    Topic
	keywords []string
	response string
}

// rules are checked in order; the first rule with a keyword contained in
// the lowercased message wins.
var rules = []rule{
	{
		topic:    TopicEmergency,
		keywords: []string{"emergency", "heart attack", "suicide", "urgent care", "911"},
		response: "This appears to be an emergency situation. I'm not capable of providing emergency assistance. " +
			"Please call your local emergency number (like 911) immediately.",
	},
	{
		topic:    TopicSleep,
		keywords: []string{"sleep", "insomnia", "can't sleep"},
		response: "Good sleep hygiene is essential for health. Here are some tips:\n\n" +
			"- Maintain a consistent sleep schedule\n" +
			"- Create a relaxing bedtime routine\n" +
			"- Keep your bedroom cool, dark, and quiet\n" +
			"- Avoid screens at least 1 hour before bed\n" +
			"- Limit caffeine after noon\n" +
			"- Exercise regularly, but not too close to bedtime\n\n" +
			"If you're consistently having trouble sleeping, consider speaking with a healthcare provider.",
	},
	{
		topic:    TopicDiet,
		keywords: []string{"food", "diet", "nutrition", "eat"},
		response: "A balanced diet is key to good health. Generally, focus on:\n\n" +
			"- Plenty of fruits and vegetables\n" +
			"- Whole grains\n" +
			"- Lean proteins\n" +
			"- Healthy fats like olive oil and avocados\n" +
			"- Limited processed foods and added sugars\n\n" +
			"The specific diet that works best varies by individual. " +
			"Consider consulting with a registered dietitian for personalized advice.",
	},
	{
		topic:    TopicExercise,
		keywords: []string{"exercise", "workout", "fitness", "physical activity"},
		response: "Regular physical activity is important for both physical and mental health. " +
			"The general recommendation is:\n\n" +
			"- At least 150 minutes of moderate aerobic activity or 75 minutes of vigorous activity weekly\n" +
			"- Muscle-strengthening activities twice a week\n\n" +
			"Find activities you enjoy to make exercise sustainable. Start slowly if you're new to exercise, " +
			"and consider consulting with a healthcare provider before beginning a new exercise program.",
	},
	{
		topic:    TopicStress,
		keywords: []string{"stress", "anxiety", "worried", "overwhelmed"},
		response: "Managing stress is important for overall wellbeing. Some effective strategies include:\n\n" +
			"- Regular mindfulness or meditation practice\n" +
			"- Deep breathing exercises\n" +
			"- Regular physical activity\n" +
			"- Adequate sleep\n" +
			"- Setting boundaries\n" +
			"- Connecting with supportive people\n" +
			"- Limiting news and social media when feeling overwhelmed\n\n" +
			"If stress is significantly impacting your life, consider speaking with a mental health professional.",
	},
}

const defaultResponse = "Thank you for your question. As a health assistant, I can provide general information " +
	"on topics like nutrition, exercise, sleep, and stress management. For personalized medical advice, " +
	"please consult with a qualified healthcare provider. " +
	"Is there a specific health topic I can provide general information about?"

// Match returns the topic and canned answer for message.
func Match(message string) (Topic, string) {
	msg := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(msg, kw) {
				return r.topic, r.response
			}
		}
	}
	return TopicGeneral, defaultResponse
}

func Respond(message string) string {
	_, text := Match(message)
	return text
}
