package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/ooaoJ/Cities-Resources/internal/shared/actor/messages"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, WH.HandleTerrain)
	register(d, WH.HandleOccupancy)
	register(d, WH.HandleTerritory)
	register(d, WH.HandleCities)
	register(d, WH.HandlePlace)
	register(d, WH.HandleEnqueue)
	register(d, WH.HandleTick)
	register(d, WH.HandleBuildOptions)
	register(d, WH.HandleNearestTile)
	register(d, WH.HandleMap)
	register(d, WH.HandleExport)
	register(d, WH.HandleImport)
}

func register[Req messages.WorldMessage](
	d *Dispatcher,
	fn func(ctx actor.Context, p *WorldActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() != reflect.Ptr {
		panic("dispatcher req type must be pointer message")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

// Has 判断该消息类型是否有处理器。
func (d *Dispatcher) Has(msg any) bool {
	_, ok := d.handlers[reflect.TypeOf(msg)]
	return ok
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *WorldActor, req messages.WorldMessage) {
	if req == nil {
		ctx.Respond(fail(ErrBadRequest.WithData("detail", "nil req")))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail(ErrBadRequest.WithData("detail", "no handler for "+bodyType.String())))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(p),
		reflect.ValueOf(req),
	})
}
