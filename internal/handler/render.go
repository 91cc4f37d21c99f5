package handler

import (
	"fmt"
	"strconv"
	"strings"

	"newsfeed/internal/domain"
	"newsfeed/internal/feed"

	"github.com/microcosm-cc/bluemonday"
	tele "gopkg.in/telebot.v3"
)

const (
	textAskName        = "Nhập tên của bạn..."
	textAskTopics      = "Bạn thích đọc gì?"
	textBusy           = "Đang xử lý..."
	textPreparing      = "Đang chuẩn bị trải nghiệm cho bạn..."
	textLoadingMore    = "Đang tải tin mới cho bạn..."
	textEmptyFeed      = "Đang tải tin tức..."
	textConnectError   = "Lỗi kết nối server!"
	textPreferError    = "Lỗi gửi sở thích!"
	textEmptySelection = "Chọn ít nhất 1 chủ đề!"
	textReadNow        = "Đọc ngay →"
	textSubmitTopics   = "Xem Tin Gợi Ý"
)

// Article text comes from the service and is rendered with ParseMode HTML
var sanitizer = bluemonday.StrictPolicy()

func escape(s string) string {
	return sanitizer.Sanitize(s)
}

// greeting is the header shown above every feed slide
func greeting(name string) string {
	return fmt.Sprintf("Chào <b>%s</b>! Tin nóng hôm nay", escape(name))
}

// renderSlide builds the carousel text for position index.
// An index past the last article shows the loading slide.
func renderSlide(name string, snap feed.Snapshot, index int) string {
	var b strings.Builder
	b.WriteString(greeting(name))
	b.WriteString("\n\n")

	if len(snap.Items) == 0 {
		if snap.IsLoading {
			b.WriteString(textLoadingMore)
		} else {
			b.WriteString(textEmptyFeed)
		}
		return b.String()
	}

	if index >= len(snap.Items) {
		b.WriteString(textLoadingMore)
		return b.String()
	}

	a := snap.Items[index]
	if img := imageLink(a.ImageURL); img != "" {
		// zero-width link so Telegram previews the article image
		fmt.Fprintf(&b, "<a href=\"%s\">\u200b</a>", escape(img))
	}
	fmt.Fprintf(&b, "<b>%s</b>\n\n", escape(a.Title))
	if a.Summary != "" {
		b.WriteString(escape(a.Summary))
		b.WriteString("\n\n")
	}

	meta := "<b>" + escape(a.Publisher) + "</b>"
	if date := a.DateString(); date != "" {
		meta += " • " + date
	}
	b.WriteString(meta)

	fmt.Fprintf(&b, "\n\n<i>%d/%d</i>", index+1, len(snap.Items))
	if index == len(snap.Items)-1 && snap.IsLoading {
		b.WriteString("\n" + textLoadingMore)
	}
	return b.String()
}

func imageLink(raw string) string {
	if strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "http://") {
		return raw
	}
	return ""
}

// slideMarkup builds navigation, like and read buttons for the slide at index
func slideMarkup(snap feed.Snapshot, index int) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	if index < 0 || index >= len(snap.Items) {
		return markup
	}
	a := snap.Items[index]

	likeText := "🤍"
	if snap.LikedIDs[a.ID] {
		likeText = "❤️"
	}

	nav := tele.Row{}
	if index > 0 {
		nav = append(nav, markup.Data("⬅️", btnNav.Unique, navPrev))
	}
	nav = append(nav, markup.Data(likeText, btnLike.Unique, string(a.ID)))
	if index < len(snap.Items)-1 {
		nav = append(nav, markup.Data("➡️", btnNav.Unique, navNext))
	}

	rows := []tele.Row{nav}
	if a.Link != "" {
		rows = append(rows, markup.Row(markup.URL(textReadNow, a.Link)))
	}
	markup.Inline(rows...)
	return markup
}

// topicsMarkup lists the catalog two per row, marking selected topics
func topicsMarkup(selected []string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	var row tele.Row
	for i, label := range domain.Topics {
		text := label
		for _, s := range selected {
			if s == label {
				text = "✅ " + label
				break
			}
		}
		row = append(row, markup.Data(text, btnTopic.Unique, strconv.Itoa(i)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	submit := textSubmitTopics
	if len(selected) > 0 {
		submit = fmt.Sprintf("%s (%d)", textSubmitTopics, len(selected))
	}
	rows = append(rows, markup.Row(markup.Data(submit, btnSubmitTopics.Unique)))

	markup.Inline(rows...)
	return markup
}

// topicAt resolves the topic button payload to a catalog label
func topicAt(data string) (string, bool) {
	i, err := strconv.Atoi(data)
	if err != nil || i < 0 || i >= len(domain.Topics) {
		return "", false
	}
	return domain.Topics[i], true
}
