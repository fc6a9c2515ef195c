package delegated

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/transport/delegate"
)

type fakeInvoker struct {
	out  string
	err  error
	op   string
	args any
}

func (f *fakeInvoker) Invoke(_ context.Context, operation string, args any) (string, error) {
	f.op = operation
	f.args = args
	return f.out, f.err
}

func TestSearchSimilar_Match(t *testing.T) {
	inv := &fakeInvoker{out: `{"video_id":"abc","url":"https://youtu.be/abc","chunk_index":2,"chunk_text":"hello","score":0.91}`}
	svc := New(inv)

	m, err := svc.SearchSimilar(context.Background(), "cats")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, delegate.OpSearchSimilar, inv.op)
	assert.Equal(t, map[string]string{"query": "cats"}, inv.args)
	assert.Equal(t, "abc", *m.VideoID)
	assert.Equal(t, 2, *m.ChunkIndex)
	assert.InDelta(t, 0.91, *m.Score, 1e-9)
}

func TestSearchSimilar_NoMatch(t *testing.T) {
	svc := New(&fakeInvoker{out: `{"error":"No similar video found."}`})

	m, err := svc.SearchSimilar(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestSearchSimilar_RemoteError(t *testing.T) {
	svc := New(&fakeInvoker{out: `{"error":"boom","traceback":"...","function_name":"search_similar_youtube_video"}`})

	_, err := svc.SearchSimilar(context.Background(), "q")
	require.ErrorIs(t, err, domain.ErrDelegation)
	var derr *domain.DelegationError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "boom", derr.Message)
}

func TestCall_InvalidJSON(t *testing.T) {
	svc := New(&fakeInvoker{out: "Traceback (most recent call last):"})

	_, err := svc.SearchVideos(context.Background(), "q")
	require.ErrorIs(t, err, domain.ErrDelegation)
}

func TestCall_EmptyOutput(t *testing.T) {
	svc := New(&fakeInvoker{out: ""})

	_, err := svc.SaveChannel(context.Background(), "UC1")
	require.ErrorIs(t, err, domain.ErrDelegation)
}

func TestCall_InvokeErrorPropagates(t *testing.T) {
	svc := New(&fakeInvoker{err: domain.ErrTimeout})

	_, err := svc.Transcript(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.ErrorIs(t, err, domain.ErrTimeout)
}

func TestSearchVideos_CamelCaseList(t *testing.T) {
	out := `[{"title":"T","publishedDate":"2024-01-01T00:00:00Z","channelName":"C","channelId":"UC1",` +
		`"thumbnailUrl":"https://i.ytimg.com/x.jpg","viewCount":42,"likeCount":null,"url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}]`
	svc := New(&fakeInvoker{out: out})

	videos, err := svc.SearchVideos(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	v := videos[0]
	assert.Equal(t, "dQw4w9WgXcQ", v.ID)
	assert.Equal(t, "C", v.ChannelName)
	assert.Equal(t, "UC1", v.ChannelID)
	require.NotNil(t, v.ViewCount)
	assert.Equal(t, int64(42), *v.ViewCount)
	assert.Nil(t, v.LikeCount)
}

func TestSearchVideos_StringResultDecodedTwice(t *testing.T) {
	out := `{"result":"[{\"title\":\"T\",\"view_count\":\"7\",\"url\":\"https://youtu.be/dQw4w9WgXcQ\"}]"}`
	svc := New(&fakeInvoker{out: out})

	videos, err := svc.SearchVideos(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "T", videos[0].Title)
	assert.Equal(t, "N/A", videos[0].ChannelName)
	require.NotNil(t, videos[0].ViewCount)
	assert.Equal(t, int64(7), *videos[0].ViewCount)
}

func TestSearchVideos_Empty(t *testing.T) {
	svc := New(&fakeInvoker{out: `[]`})

	videos, err := svc.SearchVideos(context.Background(), "q")
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)
}

func TestChannelInfo_ScriptShape(t *testing.T) {
	out := `{"channelTitle":"Chan","channelUrl":"https://www.youtube.com/channel/UCxyz","subscriberCount":"10",` +
		`"videos":[{"title":"V","url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ","publishedDate":"2024"}]}`
	inv := &fakeInvoker{out: out}
	svc := New(inv)

	ch, err := svc.ChannelInfo(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, delegate.OpChannelInfo, inv.op)
	assert.Equal(t, "UCxyz", ch.ID)
	assert.Equal(t, "Chan", ch.Name)
	require.Len(t, ch.RecentVideos, 1)
	assert.Equal(t, "dQw4w9WgXcQ", ch.RecentVideos[0].ID)
}

func TestChannelInfo_GatewayShape(t *testing.T) {
	out := `{"channel_id":"UC1","channel_name":"Name","recent_videos":[]}`
	svc := New(&fakeInvoker{out: out})

	ch, err := svc.ChannelInfo(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "UC1", ch.ID)
	assert.Equal(t, "Name", ch.Name)
	assert.NotNil(t, ch.RecentVideos)
	assert.Empty(t, ch.RecentVideos)
}

func TestSaveChannel_ResultString(t *testing.T) {
	inv := &fakeInvoker{out: `{"result":"Saved 12 videos."}`}
	svc := New(inv)

	msg, err := svc.SaveChannel(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Equal(t, "Saved 12 videos.", msg)
	assert.Equal(t, map[string]string{"channel_id": "UC1"}, inv.args)
}

func TestTranscript_ResultString(t *testing.T) {
	svc := New(&fakeInvoker{out: `{"result":"never gonna give you up"}`})

	tr, err := svc.Transcript(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "never gonna give you up", tr.Text)
}

func TestTranscript_UnexpectedShape(t *testing.T) {
	svc := New(&fakeInvoker{out: `{"result":{"foo":1}}`})

	_, err := svc.Transcript(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDelegation))
}

func TestCall_NullPayloadIsMalformed(t *testing.T) {
	ctx := context.Background()
	url := "https://youtu.be/dQw4w9WgXcQ"
	for _, out := range []string{`null`, `{"result":null}`} {
		svc := New(&fakeInvoker{out: out})

		match, err := svc.SearchSimilar(ctx, "q")
		assert.Nil(t, match, out)
		assert.ErrorIs(t, err, domain.ErrDelegation, out)

		videos, err := svc.SearchVideos(ctx, "q")
		assert.Nil(t, videos, out)
		assert.ErrorIs(t, err, domain.ErrDelegation, out)

		_, err = svc.ChannelInfo(ctx, url)
		assert.ErrorIs(t, err, domain.ErrDelegation, out)

		_, err = svc.SaveChannel(ctx, "UC1")
		assert.ErrorIs(t, err, domain.ErrDelegation, out)

		_, err = svc.Transcript(ctx, url)
		assert.ErrorIs(t, err, domain.ErrDelegation, out)
	}
}

func TestSearchSimilar_EmptyObjectIsMalformed(t *testing.T) {
	svc := New(&fakeInvoker{out: `{"result":{}}`})

	match, err := svc.SearchSimilar(context.Background(), "q")
	assert.Nil(t, match)
	assert.ErrorIs(t, err, domain.ErrDelegation)
}

func TestSaveChannel_EmptyStringIsMalformed(t *testing.T) {
	svc := New(&fakeInvoker{out: `{"result":""}`})

	_, err := svc.SaveChannel(context.Background(), "UC1")
	assert.ErrorIs(t, err, domain.ErrDelegation)
}

func TestTranscript_EmptyStringIsMalformed(t *testing.T) {
	svc := New(&fakeInvoker{out: `{"result":"  "}`})

	_, err := svc.Transcript(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assert.ErrorIs(t, err, domain.ErrDelegation)
}

func TestChannelInfo_MissingIDIsMalformed(t *testing.T) {
	svc := New(&fakeInvoker{out: `{"channelTitle":"Chan","videos":[]}`})

	_, err := svc.ChannelInfo(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assert.ErrorIs(t, err, domain.ErrDelegation)
}

func TestSearchVideos_TopLevelStringNotDecodedTwice(t *testing.T) {
	out := `"[{\"title\":\"T\",\"url\":\"https://youtu.be/dQw4w9WgXcQ\"}]"`
	svc := New(&fakeInvoker{out: out})

	videos, err := svc.SearchVideos(context.Background(), "q")
	assert.Nil(t, videos)
	assert.ErrorIs(t, err, domain.ErrDelegation)
}

func TestSearchSimilar_MistypedFieldReadsAsAbsent(t *testing.T) {
	svc := New(&fakeInvoker{out: `{"video_id":7,"url":"https://youtu.be/abc","chunk_index":"2","chunk_text":"hi","score":null}`})

	match, err := svc.SearchSimilar(context.Background(), "q")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Nil(t, match.VideoID)
	assert.Nil(t, match.ChunkIndex)
	assert.Nil(t, match.Score)
	assert.Equal(t, "https://youtu.be/abc", *match.URL)
}
