package entity

type Emotion string

const (
	EmotionNeutral  Emotion = "neutral"
	EmotionEmphatic Emotion = "emphatic"
	EmotionHurry    Emotion = "hurry"
	EmotionExcited  Emotion = "excited"
	EmotionPlayful  Emotion = "playful"
	EmotionIdyllic  Emotion = "idyllic"
	EmotionQuestion Emotion = "question"
)

const DefaultEmotion = EmotionEmphatic

// KnownEmotions lists the styles the hosted application ships with. Other
// tokens are passed through untouched.
var KnownEmotions = []Emotion{
	EmotionNeutral,
	EmotionEmphatic,
	EmotionHurry,
	EmotionExcited,
	EmotionPlayful,
	EmotionIdyllic,
	EmotionQuestion,
}

func (e Emotion) String() string {
	return string(e)
}

// AnimationParams describes one animation link. Zero Width/Height and an
// empty Aspect mean "not set".
type AnimationParams struct {
	Message     string
	Emotion     Emotion
	Dark        bool
	PWA         bool
	GIF         bool
	Aspect      string
	Width       int
	Height      int
	ForceAspect bool
}

func NewAnimationParams(message string) AnimationParams {
	return AnimationParams{
		Message: message,
		Emotion: DefaultEmotion,
		Dark:    true,
	}
}
