package tshirt

// GenerationRequest - POST /generate-tshirt body
type GenerationRequest struct {
	Idea string `json:"idea"`
}

// GenerationResponse - successful generation
type GenerationResponse struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"image_url"`
}

// ErrorResponse - tagged upstream failure, sent with status 200
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details"`
}

type apiError struct {
	Error string `json:"error"`
}

// Error tags returned to clients
const (
	TagGeminiFailed  = "Gemini API failed"
	TagGeminiParsing = "Gemini response parsing failed"
	TagImageFailed   = "Image generation failed"
	TagNoImageData   = "No image data returned"
)

// StaticRoutePrefix is where stored images are served
const StaticRoutePrefix = "/static/"

const (
	fileNamePrefix       = "tshirt_"
	contentTypePNG       = "image/png"
	contentTypeWebP      = "image/webp"
	extensionPNG         = "png"
	extensionWebP        = "webp"
	maxRequestBodyBytes  = 1 << 20
	logIdeaPreviewLength = 40
)

// GenerationError - one of the four tagged upstream failures
type GenerationError struct {
	Tag     string
	Details any
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return e.Tag + ": " + e.Err.Error()
	}
	return e.Tag
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
