// Package service provides the high-level API for controlling a Roland
// VR-6HD device.
//
// DeviceService wraps the transport and codec layers into typed
// operations: write a parameter, read a parameter, query the version.
// Device-reported errors (wire.DeviceError), codec errors and network
// errors travel on distinct error channels and remain distinguishable
// with errors.Is and errors.As.
//
//	svc := service.New(service.Config{Host: "192.168.1.50"})
//	if err := svc.Connect(ctx); err != nil { ... }
//	defer svc.Close()
//
//	product, version, err := svc.GetVersion()
//	value, err := svc.ReadParameter(addr, 1)
//	err = svc.WriteParameter(addr, 0x01)
package service
