package command

import "github.com/arloliu/go-sharksem/arg"

const (
	kInt    = arg.KindInt
	kFloat  = arg.KindFloat
	kString = arg.KindString
)

func kinds(k ...arg.Kind) []arg.Kind { return k }

func repeat(k arg.Kind, n int) []arg.Kind {
	r := make([]arg.Kind, n)
	for i := range r {
		r[i] = k
	}

	return r
}

var catalog = []Command{
	// electron optics
	{Name: "AutoColumn", Group: "optics", Args: kinds(kInt)},
	{Name: "AutoGun", Group: "optics", Args: kinds(kInt)},
	{Name: "AutoWD", Group: "optics", Args: kinds(kInt)},
	{Name: "Degauss", Group: "optics"},
	{Name: "EnumCenterings", Group: "optics", Returns: kinds(kString)},
	{Name: "EnumGeometries", Group: "optics", Returns: kinds(kString)},
	{Name: "EnumPCIndexes", Group: "optics", Returns: kinds(kString)},
	{Name: "Get3DBeam", Group: "optics", Returns: kinds(kFloat, kFloat)},
	{Name: "GetCentering", Group: "optics", Args: kinds(kInt), Returns: kinds(kFloat, kFloat)},
	{Name: "GetGeometry", Group: "optics", Args: kinds(kInt), Returns: kinds(kFloat, kFloat)},
	{Name: "GetIAbsorbed", Group: "optics", Returns: kinds(kFloat)},
	{Name: "GetImageShift", Group: "optics", Returns: kinds(kFloat, kFloat)},
	{Name: "GetPCFine", Group: "optics", Returns: kinds(kFloat)},
	{Name: "GetPCContinual", Group: "optics", Returns: kinds(kFloat)},
	{Name: "GetPCIndex", Group: "optics", Returns: kinds(kInt)},
	{Name: "GetSpotSize", Group: "optics", Returns: kinds(kFloat)},
	{Name: "GetViewField", Group: "optics", Returns: kinds(kFloat)},
	{Name: "GetWD", Group: "optics", Returns: kinds(kFloat)},
	{Name: "Set3DBeam", Group: "optics", Args: kinds(kFloat, kFloat)},
	{Name: "SetCentering", Group: "optics", Args: kinds(kInt, kFloat, kFloat)},
	{Name: "SetGeometry", Group: "optics", Args: kinds(kInt, kFloat, kFloat)},
	{Name: "SetImageShift", Group: "optics", Args: kinds(kFloat, kFloat)},
	{Name: "SetPCIndex", Group: "optics", Args: kinds(kInt)},
	{Name: "SetPCContinual", Group: "optics", Args: kinds(kFloat)},
	{Name: "SetViewField", Group: "optics", Args: kinds(kFloat)},
	{Name: "SetWD", Group: "optics", Args: kinds(kFloat)},

	// manipulators
	{Name: "ManipGetCount", Group: "manipulator", Returns: kinds(kInt)},
	{Name: "ManipGetCurr", Group: "manipulator", Returns: kinds(kInt)},
	{Name: "ManipSetCurr", Group: "manipulator", Args: kinds(kInt)},
	{Name: "ManipGetConfig", Group: "manipulator", Args: kinds(kInt), Returns: kinds(kString)},

	// stage: x, y, z, rotation, tilt
	{Name: "StgCalibrate", Group: "stage"},
	{Name: "StgGetPosition", Group: "stage", Returns: repeat(kFloat, 5)},
	{Name: "StgIsBusy", Group: "stage", Returns: kinds(kInt)},
	{Name: "StgIsCalibrated", Group: "stage", Returns: kinds(kInt)},
	{Name: "StgMoveTo", Group: "stage", Args: repeat(kFloat, 5), Optional: 5},
	{Name: "StgStop", Group: "stage"},

	// input channels and detectors
	{Name: "DtAutoSignal", Group: "detector", Args: kinds(kInt)},
	{Name: "DtEnable", Group: "detector", Args: kinds(kInt, kInt, kInt), Optional: 1},
	{Name: "DtEnumDetectors", Group: "detector", Returns: kinds(kString)},
	{Name: "DtGetChannels", Group: "detector", Returns: kinds(kInt)},
	{Name: "DtGetEnabled", Group: "detector", Args: kinds(kInt), Returns: kinds(kInt, kInt)},
	{Name: "DtGetGainBlack", Group: "detector", Args: kinds(kInt), Returns: kinds(kFloat, kFloat)},
	{Name: "DtGetSelected", Group: "detector", Args: kinds(kInt), Returns: kinds(kInt)},
	{Name: "DtSelect", Group: "detector", Args: kinds(kInt, kInt)},
	{Name: "DtSetGainBlack", Group: "detector", Args: kinds(kInt, kFloat, kFloat)},

	// scanning
	{Name: "ScEnumSpeeds", Group: "scanning", Returns: kinds(kString)},
	{Name: "ScGetBlanker", Group: "scanning", Returns: kinds(kInt)},
	{Name: "ScGetExternal", Group: "scanning", Returns: kinds(kInt)},
	{Name: "ScGetSpeed", Group: "scanning", Returns: kinds(kInt)},
	// frame id, width, height, x0, y0, x1, y1, dwell time, pixel count, single
	{Name: "ScScanLine", Group: "scanning", Args: repeat(kInt, 10), Returns: kinds(kInt)},
	// frame id, width, height, left, top, right, bottom, single
	{Name: "ScScanXY", Group: "scanning", Args: repeat(kInt, 8), Returns: kinds(kInt)},
	{Name: "ScSetBlanker", Group: "scanning", Args: kinds(kInt)},
	{Name: "ScSetExternal", Group: "scanning", Args: kinds(kInt)},
	{Name: "ScSetSpeed", Group: "scanning", Args: kinds(kInt)},
	{Name: "ScStopScan", Group: "scanning"},
	{Name: "ScSetBeamPos", Group: "scanning", Args: kinds(kFloat, kFloat)},

	// scanning mode
	{Name: "SMEnumModes", Group: "scanning-mode", Returns: kinds(kString)},
	{Name: "SMGetMode", Group: "scanning-mode", Returns: kinds(kInt)},
	{Name: "SMSetMode", Group: "scanning-mode", Args: kinds(kInt)},

	// vacuum
	{Name: "VacGetPressure", Group: "vacuum", Args: kinds(kInt), Returns: kinds(kFloat)},
	{Name: "VacGetStatus", Group: "vacuum", Returns: kinds(kInt)},
	{Name: "VacGetVPMode", Group: "vacuum", Returns: kinds(kInt)},
	{Name: "VacGetVPPress", Group: "vacuum", Returns: kinds(kFloat)},
	{Name: "VacPump", Group: "vacuum"},
	{Name: "VacSetVPMode", Group: "vacuum", Args: kinds(kInt)},
	{Name: "VacSetVPPress", Group: "vacuum", Args: kinds(kFloat)},
	{Name: "VacVent", Group: "vacuum"},

	// airlock
	{Name: "ArlGetStatus", Group: "airlock", Returns: kinds(kInt)},
	{Name: "ArlPump", Group: "airlock"},
	{Name: "ArlVent", Group: "airlock"},
	{Name: "ArlOpenValve", Group: "airlock"},
	{Name: "ArlCloseValve", Group: "airlock"},

	// high voltage
	{Name: "HVAutoHeat", Group: "high-voltage", Args: kinds(kInt)},
	{Name: "HVBeamOff", Group: "high-voltage"},
	{Name: "HVBeamOn", Group: "high-voltage"},
	{Name: "HVEnumIndexes", Group: "high-voltage", Returns: kinds(kString)},
	{Name: "HVGetBeam", Group: "high-voltage", Returns: kinds(kInt)},
	{Name: "HVGetEmission", Group: "high-voltage", Returns: kinds(kFloat)},
	{Name: "HVGetFilTime", Group: "high-voltage", Returns: kinds(kInt)},
	{Name: "HVGetHeating", Group: "high-voltage", Returns: kinds(kFloat)},
	{Name: "HVGetIndex", Group: "high-voltage", Returns: kinds(kInt)},
	{Name: "HVGetVoltage", Group: "high-voltage", Returns: kinds(kFloat)},
	{Name: "HVSetIndex", Group: "high-voltage", Args: kinds(kInt)},
	{Name: "HVSetVoltage", Group: "high-voltage", Args: kinds(kFloat)},

	// GUI
	{Name: "GUIGetScanning", Group: "gui", Returns: kinds(kInt)},
	{Name: "GUISetScanning", Group: "gui", Args: kinds(kInt)},

	// camera: channel, zoom, fps, compression
	{Name: "CameraEnable", Group: "camera", Args: kinds(kInt, kFloat, kFloat, kInt)},
	{Name: "CameraDisable", Group: "camera"},
	{Name: "CameraGetStatus", Group: "camera", Args: kinds(kInt), Returns: kinds(kInt, kFloat, kFloat, kInt)},

	// miscellaneous
	{Name: "TcpGetVersion", Group: "misc", Returns: kinds(kString)},
	{Name: "TcpGetDevice", Group: "misc", Returns: kinds(kString)},
	{Name: "TcpRegDataPort", Group: "misc", Args: kinds(kInt), Returns: kinds(kInt)},
	{Name: "ChamberLed", Group: "misc", Args: kinds(kInt)},
	{Name: "Delay", Group: "misc", Args: kinds(kInt)},
}

var catalogIndex = func() map[string]Command {
	m := make(map[string]Command, len(catalog))
	for _, c := range catalog {
		m[c.Name] = c
	}

	return m
}()
