package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-stack/grievance-service/internal/domain"
)

func TestClassifyIsDeterministic(t *testing.T) {
	title := "Garbage not collected"
	description := "The garbage in our lane has not been collected for a week and it is overflowing."
	first := Classify(title, description)
	second := Classify(title, description)
	assert.Equal(t, first, second)
}

func TestClassifyUrgentPipeBurst(t *testing.T) {
	result := Classify("URGENT: water pipe burst on Main St", "need it fixed today")

	assert.Equal(t, 10, result.Urgency, "urgent keyword carries the maximum weight")
	assert.Equal(t, SentimentNegative, result.Sentiment)
	assert.Equal(t, 2, result.Complexity)
	assert.Equal(t, domain.PriorityHigh, result.Priority)
	assert.Equal(t, "Municipal Services", result.SuggestedDepartment)
	assert.Equal(t, "Water & Utilities", result.Category)
}

func TestClassifyQuietComplaintIsLow(t *testing.T) {
	result := Classify("Streetlight not working", "")

	assert.Equal(t, 1, result.Urgency)
	assert.Equal(t, SentimentNeutral, result.Sentiment)
	assert.Equal(t, domain.PriorityLow, result.Priority)
	assert.Equal(t, "Municipal Services", result.SuggestedDepartment)
}

func TestClassifySentimentShiftsPriority(t *testing.T) {
	positive := Classify("Thank you", "great prompt service from the office")
	assert.Equal(t, SentimentPositive, positive.Sentiment)
	assert.Equal(t, domain.PriorityLow, positive.Priority)

	negative := Classify("Terrible broken service", "awful and ignored for days")
	assert.Equal(t, SentimentNegative, negative.Sentiment)
	assert.True(t, negative.Priority.Rank() >= positive.Priority.Rank())
}

func TestClassifyBucketPrecedence(t *testing.T) {
	// "school" (Education) and "water" (Municipal Services) both match;
	// bucket order decides, not keyword position in the text.
	result := Classify("Water leaking near the school", "")
	assert.Equal(t, "Education", result.SuggestedDepartment)
	assert.Equal(t, "Education & Schools", result.Category)
}

func TestClassifyFallbackDepartment(t *testing.T) {
	result := Classify("Something odd happened", "nothing matched here")
	assert.Equal(t, "Other", result.SuggestedDepartment)
	assert.Equal(t, "General", result.Category)
}

func TestClassifyUrgencyTakesMaxNotSum(t *testing.T) {
	result := Classify("urgent urgent urgent", "soon today")
	assert.Equal(t, 10, result.Urgency)
}

func TestClassifyEmergencyIsCritical(t *testing.T) {
	title := "Emergency sewage overflowing into the street"
	description := "The manhole near the market is overflowing and the drainage pipeline is broken. " +
		"Sewage is leaking everywhere and the smell is terrible for residents nearby every single day."
	result := Classify(title, description)

	assert.Equal(t, 10, result.Urgency)
	assert.Equal(t, SentimentNegative, result.Sentiment)
	assert.Equal(t, domain.PriorityCritical, result.Priority)
	assert.Equal(t, "Municipal Services", result.SuggestedDepartment)
}

func TestClassifyIgnoresPunctuationAndCase(t *testing.T) {
	shouty := Classify("WATER!!!", "")
	calm := Classify("water", "")
	assert.Equal(t, calm.SuggestedDepartment, shouty.SuggestedDepartment)
	assert.Equal(t, calm.Priority, shouty.Priority)
}

func TestClassifyScoresStayInRange(t *testing.T) {
	long := ""
	for i := 0; i < 200; i++ {
		long += "pipeline valve sewage drainage emergency broken "
	}
	result := Classify("Emergency", long)
	require.LessOrEqual(t, result.Complexity, 10)
	require.GreaterOrEqual(t, result.Complexity, 1)
	require.LessOrEqual(t, result.Urgency, 10)
}
