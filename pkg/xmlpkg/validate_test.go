package xmlpkg

import "testing"

func TestValidateWellFormedDocument(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<context_package version="1" format_version="1.0">
  <metadata><job_id>abc</job_id></metadata>
  <refined_prompt><![CDATA[do the thing]]></refined_prompt>
  <low_priority_files>
    <file_reference path="a.go" relevance="0.2" size="10" language="go" token_estimate="3"/>
  </low_priority_files>
</context_package>
`
	res := Validate(doc)
	if !res.IsValid {
		t.Fatalf("expected valid document, got errors: %v", res.Errors)
	}
}

func TestValidateMissingDeclaration(t *testing.T) {
	doc := `<context_package version="1"></context_package>`
	res := Validate(doc)
	if res.IsValid {
		t.Fatalf("expected invalid document due to missing declaration")
	}
	found := false
	for _, e := range res.Errors {
		if e == "missing or malformed XML declaration" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected missing-declaration error, got %v", res.Errors)
	}
}

func TestValidateMismatchedClosingTag(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<context_package><metadata></context_package>`
	res := Validate(doc)
	if res.IsValid {
		t.Fatalf("expected invalid document due to mismatched closing tag")
	}
}

func TestValidateUnclosedTag(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<context_package><metadata></metadata>`
	res := Validate(doc)
	if res.IsValid {
		t.Fatalf("expected invalid document due to unclosed root tag")
	}
	found := false
	for _, e := range res.Errors {
		if e == "unclosed tags: context_package" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unclosed-tag error, got %v", res.Errors)
	}
}

func TestValidateTagLikeTextInsideCDATAIsIgnored(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<context_package><refined_prompt><![CDATA[<not a real tag></also not closed]]></refined_prompt></context_package>`
	res := Validate(doc)
	if !res.IsValid {
		t.Fatalf("expected valid document, CDATA text should not be parsed as tags, got errors: %v", res.Errors)
	}
}

func TestValidateSelfClosingTagDoesNotRequireClose(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<context_package><file_reference path="a.go"/></context_package>`
	res := Validate(doc)
	if !res.IsValid {
		t.Fatalf("expected valid document with self-closing tag, got errors: %v", res.Errors)
	}
}
