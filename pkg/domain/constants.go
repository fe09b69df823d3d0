package domain

// Sequence Ontology roles commonly carried by parts.
const (
	RolePromoter         = "http://identifiers.org/so/SO:0000167"
	RoleCDS              = "http://identifiers.org/so/SO:0000316"
	RoleRBS              = "http://identifiers.org/so/SO:0000139"
	RoleTerminator       = "http://identifiers.org/so/SO:0000141"
	RoleEngineeredRegion = "http://identifiers.org/so/SO:0000804"
	RoleSgRNA            = "http://identifiers.org/so/SO:0001998"
	RoleOperator         = "http://identifiers.org/so/SO:0000057"
	RoleGene             = "http://identifiers.org/so/SO:0000704"
	RoleEngineeredGene   = "http://identifiers.org/so/SO:0000280"
	RoleInsertionSite    = "http://identifiers.org/so/SO:0000366"
)

// Biopax types for ComponentDefinition.
const (
	TypeDNARegion     = "http://www.biopax.org/release/biopax-level3.owl#DnaRegion"
	TypeRNARegion     = "http://www.biopax.org/release/biopax-level3.owl#RnaRegion"
	TypeProtein       = "http://www.biopax.org/release/biopax-level3.owl#Protein"
	TypeSmallMolecule = "http://www.biopax.org/release/biopax-level3.owl#SmallMolecule"
)

// roleAliases maps short manifest names to ontology terms.
var roleAliases = map[string]string{
	"promoter":          RolePromoter,
	"cds":               RoleCDS,
	"rbs":               RoleRBS,
	"terminator":        RoleTerminator,
	"engineered_region": RoleEngineeredRegion,
	"sgrna":             RoleSgRNA,
	"operator":          RoleOperator,
	"gene":              RoleGene,
	"engineered_gene":   RoleEngineeredGene,
	"insertion_site":    RoleInsertionSite,
}

// ResolveRole expands a short role alias; full terms pass through.
func ResolveRole(role string) string {
	if term, ok := roleAliases[role]; ok {
		return term
	}
	return role
}

// RoleName returns the short alias of a role term, or the term itself.
func RoleName(term string) string {
	for alias, t := range roleAliases {
		if t == term {
			return alias
		}
	}
	return term
}
