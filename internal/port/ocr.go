package port

import "context"

// ImageOCR is the external OCR-engine collaborator. The pipeline treats it as
// a black box producing raw text and a confidence in [0,1]. Implementations
// own any timeout on the underlying engine call.
type ImageOCR interface {
	Recognize(ctx context.Context, image []byte) (text string, confidence float64, err error)
}
