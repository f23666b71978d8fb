package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timelineFixture = `<!DOCTYPE html>
<html><body>
<div class="timeline">
  <div class="timeline-item">
    <div class="tweet-body">
      <div class="tweet-header">
        <span class="tweet-date"><a href="/whale_alert/status/1" title="Aug 29, 2026 · 1:30 PM UTC">Aug 29</a></span>
      </div>
      <div class="tweet-content media-body">Solana network down again. However, <a href="/search?q=%23Bitcoin">Bitcoin</a> breaks $100K!</div>
    </div>
  </div>
  <div class="timeline-item">
    <div class="tweet-body">
      <span class="tweet-date"><a href="/whale_alert/status/2" title="not a date">yesterday</a></span>
      <div class="tweet-content">ETH looking strong into the weekend</div>
    </div>
  </div>
  <div class="timeline-item">
    <div class="tweet-body">
      <div class="tweet-content">   </div>
    </div>
  </div>
  <div class="timeline-item show-more"><a href="?cursor=abc">Load more</a></div>
</div>
</body></html>`

func TestParseTimeline(t *testing.T) {
	docs, err := ParseTimeline(timelineFixture, "whale_alert")
	require.NoError(t, err)
	require.Len(t, docs, 2, "empty items and the pagination stub are skipped")

	assert.Equal(t, "Solana network down again. However, Bitcoin breaks $100K!", docs[0].Text)
	assert.Equal(t, "whale_alert", docs[0].Account)
	assert.Equal(t, time.Date(2026, 8, 29, 13, 30, 0, 0, time.UTC), docs[0].ObservedAt)

	assert.Equal(t, "ETH looking strong into the weekend", docs[1].Text)
	assert.WithinDuration(t, time.Now().UTC(), docs[1].ObservedAt, time.Minute,
		"unparseable timestamps fall back to observation time")
}

func TestParseTimeline_EmptyPage(t *testing.T) {
	docs, err := ParseTimeline("<html><body><div class=\"timeline\"></div></body></html>", "acct")
	require.NoError(t, err)
	assert.Empty(t, docs)
}
