package models

import "fmt"

// AssetKind distinguishes the two asset streams a scene contributes.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetAudio AssetKind = "audio"
)

// MissingAssetError reports a scene asset absent from the blob store.
// The whole job is aborted; there is no partial-asset fallback.
type MissingAssetError struct {
	Bucket string
	Object string
	Index  int
	Kind   AssetKind
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("missing %s asset for scene %d: gs://%s/%s does not exist",
		e.Kind, e.Index, e.Bucket, e.Object)
}

// AudioMergeError reports a failed stream-copy concatenation. Clip is
// the offending input when a specific clip could be identified.
type AudioMergeError struct {
	Clip   string
	Detail string
}

func (e *AudioMergeError) Error() string {
	if e.Clip != "" {
		return fmt.Sprintf("audio merge failed at clip %s: %s", e.Clip, e.Detail)
	}
	return fmt.Sprintf("audio merge failed: %s", e.Detail)
}

// EncodeError reports a non-zero exit from the encoder. Stderr holds
// the tool's diagnostic output verbatim for operator diagnosis.
type EncodeError struct {
	Stderr string
}

func (e *EncodeError) Error() string {
	return "video encode failed: ffmpeg exited with an error"
}

// PublishError reports a failed upload of the finished video.
type PublishError struct {
	Bucket string
	Object string
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to gs://%s/%s failed: %v", e.Bucket, e.Object, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
