/*
Package dsl provides a fluent Go builder for design documents.

It lets parts, assemblies and insertions be declared in code instead of a
YAML manifest. The builder produces the same manifest the CLI reads, so both
paths share validation and identity minting.

Example usage:

	b := dsl.New("demo")
	b.Part("R0010").Promoter().Sequence("ggctgca")
	b.Part("E0040").CDS().Sequence("atgtaa")
	b.Design("gene").Assemble("R0010", "E0040")
	b.Design("gene_v2").Insert("gene", "E0040", 8)

	doc, err := b.Build(identity.MustNew("https://example.com", "1"))
	// ... compile with strand.Engine
*/
package dsl
