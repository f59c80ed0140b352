package classifier

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/frametrace/internal/config"
	"github.com/mrzor/frametrace/internal/event"
)

func header(ts, severity string) string {
	return fmt.Sprintf("%s  1234   0x1a2b3c %-7s ", ts, severity)
}

func chainLine(ts, fn, elem, pad, buf, bufTS string) string {
	return header(ts, "DEBUG") + fmt.Sprintf(
		"GST_SCHEDULING gstpad.c:3596:%s:<%s:%s> calling chainfunction &gst_queue_chain with buffer %s, data 0x4c5000, malloc (nil), ts %s, dur 0:00:00.033333333",
		fn, elem, pad, buf, bufTS)
}

func TestClassify_ChainCall(t *testing.T) {
	c := New(config.DefaultProfile())

	ev := c.Classify(chainLine("0:00:01.234567890", "gst_pad_push", "cam0", "src", "0x4d6d80", "0:00:00.033333333"))

	require.Equal(t, event.KindChainCall, ev.Kind)
	assert.Equal(t, "0:00:01.234567890", ev.Timestamp)
	assert.Equal(t, "0x4d6d80", ev.BufferID)
	assert.Equal(t, event.ChainCall{
		Func:     "gst_pad_push",
		Stage:    "cam",
		Instance: "0",
		Pad:      "src",
		BufferTS: "0:00:00.033333333",
		Duration: "0:00:00.033333333",
	}, ev.Chain)
	assert.Equal(t, "gst_pad_push:<cam0:src>", ev.Chain.Label())
}

func TestClassify_InstanceIsLastDigit(t *testing.T) {
	c := New(config.DefaultProfile())

	tests := []struct {
		elem     string
		stage    string
		instance string
	}{
		{"ducatih264dec0", "ducatih264dec", "0"},
		{"queue12", "queue1", "2"},
		{"h264parse_3", "h264parse_", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.elem, func(t *testing.T) {
			ev := c.Classify(chainLine("0:00:01.000000000", "gst_pad_push", tt.elem, "src", "0xa", "0:00:00.0"))
			require.Equal(t, event.KindChainCall, ev.Kind)
			assert.Equal(t, tt.stage, ev.Chain.Stage)
			assert.Equal(t, tt.instance, ev.Chain.Instance)
		})
	}
}

func TestClassify_ChainCallFiltered(t *testing.T) {
	c := New(config.DefaultProfile())

	tests := []struct {
		name string
		line string
	}{
		{"other calling function", chainLine("0:00:01.0", "gst_pad_push_list", "cam0", "src", "0xa", "0:00:00.0")},
		{"udpsrc", chainLine("0:00:01.0", "gst_pad_push", "udpsrc0", "src", "0xa", "0:00:00.0")},
		{"recv_rtp_sink_", chainLine("0:00:01.0", "gst_pad_push", "recv_rtp_sink_0", "proxypad1", "0xa", "0:00:00.0")},
		{"rtpsession", chainLine("0:00:01.0", "gst_pad_push", "rtpsession0", "send_rtp_src", "0xa", "0:00:00.0")},
		{"rtpssrcdemux", chainLine("0:00:01.0", "gst_pad_push", "rtpssrcdemux0", "src_1", "0xa", "0:00:00.0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := c.Classify(tt.line)
			assert.Equal(t, event.KindIgnored, ev.Kind)
			assert.Equal(t, "0:00:01.0", ev.Timestamp)
		})
	}
}

func TestClassify_CaptureDone(t *testing.T) {
	c := New(config.DefaultProfile())

	ev := c.Classify(header("0:00:02.000000000", "DEBUG") +
		"GST_PERFORMANCE gstomx_core.c:123:FillBufferDone:<cam> FillBufferDone: GstBuffer=0x4d6d80")

	assert.Equal(t, event.NewCaptureDone("0:00:02.000000000", "0x4d6d80"), ev)
}

func TestClassify_CaptureDoneOtherElement(t *testing.T) {
	c := New(config.DefaultProfile())

	ev := c.Classify(header("0:00:02.000000000", "DEBUG") +
		"GST_PERFORMANCE gstomx_core.c:123:FillBufferDone:<cam1> FillBufferDone: GstBuffer=0x4d6d80")

	assert.Equal(t, event.KindIgnored, ev.Kind)
}

func TestClassify_EncodeDone(t *testing.T) {
	c := New(config.DefaultProfile())

	ev := c.Classify(header("0:00:03.000000000", "DEBUG") +
		"GST_PERFORMANCE gstducatividenc.c:456:gst_ducati_videnc_handle_frame:<ducatih264enc0> Encoded frame in 2048 bytes")

	assert.Equal(t, event.NewEncodeDone("0:00:03.000000000", 2048), ev)
}

func TestClassify_EncodeDoneOverflow(t *testing.T) {
	c := New(config.DefaultProfile())

	ev := c.Classify(header("0:00:03.000000000", "DEBUG") +
		"GST_PERFORMANCE gstducatividenc.c:456:gst_ducati_videnc_handle_frame:<ducatih264enc0> Encoded frame in 99999999999999999999 bytes")

	assert.Equal(t, event.KindIgnored, ev.Kind)
}

func TestClassify_Display(t *testing.T) {
	c := New(config.DefaultProfile())

	for _, phase := range []string{"Before DRI2SwapBuffersVid", "After DRI2WaitSBC"} {
		t.Run(phase, func(t *testing.T) {
			ev := c.Classify(header("0:00:04.000000000", "DEBUG") +
				"GST_PERFORMANCE gstdri2util.c:789:gst_dri2window_buffer_show:<dri2videosink0> " + phase + ", buf=0x5e5e00")
			assert.Equal(t, event.NewDisplay("0:00:04.000000000", phase, "0x5e5e00"), ev)
		})
	}
}

func TestClassify_Unrecognized(t *testing.T) {
	c := New(config.DefaultProfile())

	for _, line := range []string{
		"",
		"New clock: GstSystemClock",
		"Execution ended after 0:00:06.612345678",
		"/GstPipeline:pipeline0/GstCapsFilter:capsfilter0.GstPad:src: caps = video/x-raw",
	} {
		ev := c.Classify(line)
		assert.Equal(t, event.Unrecognized(line), ev, "line %q", line)
	}
}

func TestClassify_HeaderWithoutKnownMessage(t *testing.T) {
	c := New(config.DefaultProfile())

	ev := c.Classify(header("0:00:00.100000000", "WARN") + "GST_ELEMENT_PADS gstelement.c:722:gst_element_add_pad:<cam> adding pad 'src'")

	assert.Equal(t, event.Ignored("0:00:00.100000000"), ev)
}

func TestClassify_HeaderShapedChatter(t *testing.T) {
	c := New(config.DefaultProfile())

	// Four words then text is indistinguishable from a debug header.
	ev := c.Classify("Setting pipeline to PAUSED ...")
	assert.Equal(t, event.Ignored("Setting"), ev)
}

func TestClassify_MessageMustStartWithCategory(t *testing.T) {
	c := New(config.DefaultProfile())

	ev := c.Classify(header("0:00:02.0", "DEBUG") +
		"prefix GST_PERFORMANCE gstomx_core.c:123:FillBufferDone:<cam> FillBufferDone: GstBuffer=0x1")

	assert.Equal(t, event.KindIgnored, ev.Kind)
}

func TestClassify_CustomProfile(t *testing.T) {
	p := config.DefaultProfile()
	p.Capture = "v4l2.src"
	p.PushFunction = "gst_pad_push_data"
	p.NoisyStages = []string{"queue"}
	c := New(p)

	ev := c.Classify(header("0:00:02.0", "DEBUG") +
		"GST_PERFORMANCE gstomx_core.c:123:FillBufferDone:<v4l2.src> FillBufferDone: GstBuffer=0x1")
	assert.Equal(t, event.KindCaptureDone, ev.Kind)

	ev = c.Classify(header("0:00:02.0", "DEBUG") +
		"GST_PERFORMANCE gstomx_core.c:123:FillBufferDone:<v4l2xsrc> FillBufferDone: GstBuffer=0x1")
	assert.Equal(t, event.KindIgnored, ev.Kind, "profile names are literal")

	ev = c.Classify(chainLine("0:00:01.0", "gst_pad_push", "cam0", "src", "0xa", "0:00:00.0"))
	assert.Equal(t, event.KindIgnored, ev.Kind)

	ev = c.Classify(chainLine("0:00:01.0", "gst_pad_push_data", "udpsrc0", "src", "0xa", "0:00:00.0"))
	assert.Equal(t, event.KindChainCall, ev.Kind)

	ev = c.Classify(chainLine("0:00:01.0", "gst_pad_push_data", "queue0", "src", "0xa", "0:00:00.0"))
	assert.Equal(t, event.KindIgnored, ev.Kind)
}

func TestMatchers(t *testing.T) {
	c := New(config.DefaultProfile())
	assert.Equal(t, []string{"chain_call", "capture_done", "encode_done", "display"}, c.Matchers())
}
