package park

import (
	"strconv"

	"desire-paths/internal/core"
)

// Parameters reports the configuration for HUDs and run reports.
func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				stringParam("park", "Park", w.cfg.Park),
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
				intParam("tick", "Tick", w.tick),
				intParam("agents", "Active agents", len(w.agents)),
			},
		},
		{
			Name:    "Pedestrians",
			Summary: "Vision search and step ranking",
			Params: []core.Parameter{
				stringParam("metric", "Metric", w.metric.Name()),
				floatParam("vision_angle", "Vision angle", params.VisionAngle),
				floatParam("vision_radius", "Vision radius", params.VisionRadius),
				floatParam("tile_weight", "Tile weight", params.TileWeight),
				floatParam("distance_weight", "Distance weight", params.DistanceWeight),
			},
		},
		{
			Name: "Spawning",
			Params: []core.Parameter{
				intParam("spawn_every", "Spawn every", params.SpawnEvery),
				intParam("spawn_count", "Spawn count", params.SpawnCount),
				intParam("max_agents", "Max agents", params.MaxAgents),
				intParam("initial_agents", "Initial agents", params.InitialAgents),
			},
		},
		{
			Name: "Grass",
			Params: []core.Parameter{
				floatParam("grass_decay_rate", "Grass decay rate", params.GrassDecayRate),
				floatParam("grass_growth_probability", "Grass growth probability", params.GrassGrowthProbability),
				floatParam("obstacle_margin_percentage", "Obstacle margin percentage", params.ObstacleMarginPercentage),
			},
		},
		{
			Name: "Accuracy",
			Params: []core.Parameter{
				intParam("accuracy_threshold", "Wear threshold", params.AccuracyThreshold),
				boolParam("accuracy_dilate", "Dilate paths", params.AccuracyDilate),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}
