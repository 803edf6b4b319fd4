package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/veil"
	"github.com/zoobzio/veil/bson"
	"github.com/zoobzio/veil/cbor"
	"github.com/zoobzio/veil/msgpack"
	veiltest "github.com/zoobzio/veil/testing"
	"github.com/zoobzio/veil/yaml"
)

// decoded mirrors the order view with tags for every target codec.
// Numbers decode as float64 since the JSON tree carries no integer type.
type decoded struct {
	ID       string `yaml:"id" msgpack:"id" bson:"id" cbor:"id"`
	Customer struct {
		ID    string `yaml:"id" msgpack:"id" bson:"id" cbor:"id"`
		Email string `yaml:"email" msgpack:"email" bson:"email" cbor:"email"`
		Phone string `yaml:"phone" msgpack:"phone" bson:"phone" cbor:"phone"`
	} `yaml:"customer" msgpack:"customer" bson:"customer" cbor:"customer"`
	Lines []struct {
		SKU      string  `yaml:"sku" msgpack:"sku" bson:"sku" cbor:"sku"`
		Quantity float64 `yaml:"quantity" msgpack:"quantity" bson:"quantity" cbor:"quantity"`
		Price    float64 `yaml:"price" msgpack:"price" bson:"price" cbor:"price"`
	} `yaml:"lines" msgpack:"lines" bson:"lines" cbor:"lines"`
	Note string `yaml:"note" msgpack:"note" bson:"note" cbor:"note"`
}

func orderView() veil.View {
	return veil.View{
		Include: []veil.Filter{
			veil.For[veiltest.Order]("id", "customer", "lines"),
			veil.For[veiltest.Customer]("id", "email", "phone").At("customer"),
		},
	}
}

func TestRenderAs_YAML(t *testing.T) {
	testRenderAs(t, yaml.New())
}

func TestRenderAs_MessagePack(t *testing.T) {
	testRenderAs(t, msgpack.New())
}

func TestRenderAs_BSON(t *testing.T) {
	testRenderAs(t, bson.New())
}

func TestRenderAs_CBOR(t *testing.T) {
	testRenderAs(t, cbor.New())
}

func testRenderAs(t *testing.T, target veil.Codec) {
	t.Helper()
	proc := veiltest.NewProcessor(t)
	index := veiltest.MustIndex(t, orderView())

	data, err := proc.RenderAs(context.Background(), index, veiltest.SampleOrder(), target)
	require.NoError(t, err)

	var out decoded
	require.NoError(t, target.Unmarshal(data, &out))

	assert.Equal(t, "o-1", out.ID)
	assert.Equal(t, "c-1", out.Customer.ID)
	assert.Equal(t, "ali**@example.com", out.Customer.Email)
	assert.Equal(t, "138****5678", out.Customer.Phone)
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "tea", out.Lines[0].SKU)
	assert.InDelta(t, 2.0, out.Lines[0].Quantity, 0.0001)
	assert.InDelta(t, 4.5, out.Lines[0].Price, 0.0001)
	assert.InDelta(t, 3.0, out.Lines[1].Price, 0.0001)
	assert.Empty(t, out.Note, "note is not in the include set")
}

func TestRender_PathScopedRule(t *testing.T) {
	proc := veiltest.NewProcessor(t)
	index := veiltest.MustIndex(t, orderView())

	// The Customer rule is scoped to the "customer" path, so a bare
	// Customer at the root renders in full.
	data := veiltest.Render(t, proc, index, veiltest.SampleCustomer())
	veiltest.AssertJSON(t, `{
		"id": "c-1",
		"name": "Alice Liddell",
		"email": "alice@example.com",
		"phone": "13812345678",
		"card": "4111 1111 1111 1234",
		"address": {"street": "2 Rabbit Hole", "city": "Oxford", "zip": "OX1"},
		"tags": ["vip"]
	}`, data)
}

func TestSend_CachesDeclaration(t *testing.T) {
	proc := veiltest.NewProcessor(t)
	calls := 0
	declare := func() veil.View {
		calls++
		return orderView()
	}

	for i := 0; i < 3; i++ {
		data, err := proc.Send(context.Background(), "integration.order", declare, veiltest.SampleOrder())
		require.NoError(t, err)
		assert.NotContains(t, string(data), "leave at the door")
	}
	assert.Equal(t, 1, calls)
}
