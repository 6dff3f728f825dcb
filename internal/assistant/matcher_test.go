package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		msg  string
		want Topic
	}{
		{"I can't SLEEP and I keep thinking about suicide", TopicEmergency},
		{"call 911", TopicEmergency},
		{"Is this urgent care material?", TopicEmergency},
		{"I have insomnia", TopicSleep},
		{"sleep and diet tips", TopicSleep},
		{"what should I eat", TopicDiet},
		{"Best NUTRITION plan?", TopicDiet},
		{"new workout ideas", TopicExercise},
		{"how much physical activity", TopicExercise},
		{"I feel overwhelmed", TopicStress},
		{"hello there", TopicGeneral},
		{"", TopicGeneral},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			got, text := Match(tc.msg)
			assert.Equal(t, tc.want, got)
			assert.NotEmpty(t, text)
		})
	}
}

func TestRespond_EmergencyShortCircuits(t *testing.T) {
	text := Respond("Sleep is hard, suicide thoughts")
	assert.Contains(t, text, "emergency situation")
	assert.NotContains(t, text, "sleep hygiene")
}

func TestRespond_Default(t *testing.T) {
	assert.Equal(t, defaultResponse, Respond("hi, how are you?"))
}
