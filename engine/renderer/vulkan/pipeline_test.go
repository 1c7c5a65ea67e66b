package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
)

func TestVertexInputDescriptions(t *testing.T) {
	tests := []struct {
		kind        metadata.VertexKind
		stride      uint32
		secondFmt   vk.Format
		secondBytes uint32
	}{
		{metadata.VertexKindColor, 24, vk.FormatR32g32b32Sfloat, 12},
		{metadata.VertexKindTextured, 20, vk.FormatR32g32Sfloat, 12},
	}

	for _, tt := range tests {
		binding, attributes, err := vertexInputDescriptions(metadata.LayoutFor(tt.kind))
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.kind, err)
		}
		if binding.Binding != 0 || binding.Stride != tt.stride || binding.InputRate != vk.VertexInputRateVertex {
			t.Errorf("%s: binding = %+v", tt.kind, binding)
		}
		if len(attributes) != 2 {
			t.Fatalf("%s: got %d attributes, want 2", tt.kind, len(attributes))
		}
		if attributes[0].Location != 0 || attributes[0].Offset != 0 || attributes[0].Format != vk.FormatR32g32b32Sfloat {
			t.Errorf("%s: position attribute = %+v", tt.kind, attributes[0])
		}
		if attributes[1].Location != 1 || attributes[1].Offset != tt.secondBytes || attributes[1].Format != tt.secondFmt {
			t.Errorf("%s: second attribute = %+v", tt.kind, attributes[1])
		}
	}
}

func TestVertexInputDescriptionsUnknownFormat(t *testing.T) {
	layout := metadata.VertexLayout{
		Stride:     8,
		Attributes: []metadata.VertexAttribute{{Format: metadata.VertexFormat(42)}},
	}
	if _, _, err := vertexInputDescriptions(layout); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
