package engine

// RegionCategory is the syntactic bucket a flagged line's disallowed
// content was attributed to.
type RegionCategory string

const (
	RegionMultilineComment  RegionCategory = "multiline-comment"
	RegionSingleLineComment RegionCategory = "single-line-comment"
	RegionInlineComment     RegionCategory = "inline-comment"
	RegionMarkupTemplate    RegionCategory = "markup-template"
	RegionStringLiteral     RegionCategory = "string-literal"
	RegionTemplateLiteral   RegionCategory = "template-literal"
	RegionCharacterLiteral  RegionCategory = "character-literal"
	RegionIdentifier        RegionCategory = "identifier-or-code"
	// RegionUnknown means the line tripped the matcher but no sub-region
	// heuristic could claim the content. An accepted blind spot.
	RegionUnknown RegionCategory = "unknown"
)

// FileKind selects the marker set used when classifying a line.
type FileKind string

const (
	KindJava   FileKind = "java"
	KindScript FileKind = "script"
	// KindMarkup is the only kind with a template region (Vue SFC).
	KindMarkup FileKind = "markup"
)

// Finding is one occurrence of disallowed content, localized to a
// file/line/region. Immutable once created.
type Finding struct {
	File    string         `json:"file"`
	Line    int            `json:"line"` // 1-based
	Text    string         `json:"text"` // trimmed line content
	Region  RegionCategory `json:"region"`
	Message string         `json:"message"`
}
