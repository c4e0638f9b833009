package service

import (
	"testing"

	"blii-be/internal/constant"
	"blii-be/internal/entity"
)

func TestSaveAcknowledgement(t *testing.T) {
	tests := []struct {
		name string
		item *entity.Item
		want string
	}{
		{
			name: "unreadable image",
			item: &entity.Item{Kind: entity.ItemKindImage},
			want: constant.UnreadableImageMessage,
		},
		{
			name: "link without preview",
			item: &entity.Item{Kind: entity.ItemKindLink},
			want: constant.NoPreviewMessage,
		},
		{
			name: "pdf by mime type",
			item: &entity.Item{Kind: entity.ItemKindFile, FileType: "application/pdf", Filename: "scan"},
			want: constant.UnsupportedPdfMessage,
		},
		{
			name: "pdf by extension",
			item: &entity.Item{Kind: entity.ItemKindFile, FileType: "application/octet-stream", Filename: "Report.PDF"},
			want: constant.UnsupportedPdfMessage,
		},
		{
			name: "other empty file",
			item: &entity.Item{Kind: entity.ItemKindFile, FileType: "text/plain", Filename: "notes.txt"},
			want: constant.EmptyFileMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := saveAcknowledgement(tt.item); got != tt.want {
				t.Errorf("saveAcknowledgement() = %q, want %q", got, tt.want)
			}
		})
	}
}
