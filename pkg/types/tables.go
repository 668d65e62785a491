package types

// Table names in a device telemetry export.
const (
	// PrimaryTable holds one telemetry record per clip.
	PrimaryTable = "video_info_table"
	// SecondaryTable holds one path record per clip, referencing PrimaryTable.
	SecondaryTable = "gis_info_table"
)

// Optional primary-table columns whose presence varies across firmware.
const (
	ColProjectFrameNum = "project_frame_num"
	ColProjectFrameDen = "project_frame_den"
	ColProjectFrame    = "project_frame"
	ColDigitalEffect   = "digital_effect"
	ColRotation        = "rotation"
	ColEncodeFormat    = "encode_format"
	ColEVBias          = "ev_bias"
	ColShutterType     = "shutter_type"
	ColVencType        = "venc_type"
)

// ExtendedColumns lists the optional pass-through columns appended after
// digital_effect, in output order.
var ExtendedColumns = []string{
	ColRotation,
	ColEncodeFormat,
	ColEVBias,
	ColShutterType,
	ColVencType,
}

// Output column names. The order of OutputColumns is the CSV header and does
// not depend on which optional columns the export carries.
const (
	OutFileName      = "file_name"
	OutProjectFPS    = "Project FPS"
	OutSensorFPS     = "Sensor FPS"
	OutDuration      = "duration"
	OutWidth         = "resolution_width"
	OutHeight        = "resolution_height"
	OutShutterSpeed  = "shutter_speed"
	OutEI            = "ei_value"
	OutWBCount       = "wb_count"
	OutWBTint        = "wb_tint"
	OutShutterAngle  = "shutter_angle"
	OutND            = "nd_value"
	OutAperture      = "aperture"
	OutModelName     = "model_name"
	OutDigitalEffect = "digital_effect"
)

// OutputColumns is the fixed output column order.
var OutputColumns = append([]string{
	OutFileName,
	OutProjectFPS,
	OutSensorFPS,
	OutDuration,
	OutWidth,
	OutHeight,
	OutShutterSpeed,
	OutEI,
	OutWBCount,
	OutWBTint,
	OutShutterAngle,
	OutND,
	OutAperture,
	OutModelName,
	OutDigitalEffect,
}, ExtendedColumns...)

// Positions of the columns the result transformer rewrites.
const (
	IdxFileName     = 0
	IdxShutterAngle = 10
	IdxAperture     = 12
)
