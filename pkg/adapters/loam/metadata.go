package loam

// PartMetadata represents the frontmatter of a part document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
//
// The elements may be given inline (sequence) or as the document body, in
// which case whitespace and FASTA header lines are ignored.
type PartMetadata struct {
	ID          string   `json:"id" mapstructure:"id"`
	Name        string   `json:"name" mapstructure:"name"`
	Description string   `json:"description" mapstructure:"description"`
	Roles       []string `json:"roles" mapstructure:"roles"`
	Role        string   `json:"role" mapstructure:"role"`
	Encoding    string   `json:"encoding" mapstructure:"encoding"`
	Sequence    string   `json:"sequence" mapstructure:"sequence"`
}
